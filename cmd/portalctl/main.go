package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/config"
	applog "trident/onboarding-portal/internal/logger"
	"trident/onboarding-portal/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Operator tool for the onboarding portal",
	Long: `portalctl reads candidates straight from the upstream candidate service and
prints them the way the portal classifies them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(candidatesCmd())
	rootCmd.AddCommand(dashboardCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCandidateService wires the same client and normalization the API uses.
func newCandidateService(cmd *cobra.Command) (services.CandidateService, *zap.Logger) {
	cfg := config.Load()

	level, _ := cmd.Flags().GetString("log-level")
	log := applog.New(level, cfg.Log.Format)

	client := services.NewCandidateClient(cfg.Upstream.CandidateAPIURL, cfg.Upstream.Timeout, log)
	return services.NewCandidateService(client, cfg.Upstream.DocumentBaseURL, log), log
}
