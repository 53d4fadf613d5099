package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trident/onboarding-portal/internal/models"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show candidate counts per status for the first page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, log := newCandidateService(cmd)
			defer func() { _ = log.Sync() }()

			summary, err := svc.Dashboard(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}
			return renderDashboard(cmd.OutOrStdout(), summary)
		},
	}
}

func renderDashboard(w io.Writer, s *models.DashboardSummary) error {
	_, err := fmt.Fprintf(w,
		"Total candidates: %d (of %d entries)\nClear:            %d\nQueued:           %d\nPending:          %d\nDiscrepancy:      %d\n",
		s.TotalCandidates, s.TotalEntries, s.Clear, s.Queued, s.Pending, s.Discrepancy,
	)
	return err
}
