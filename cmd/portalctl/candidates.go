package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/services"
)

func candidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List candidates with their computed status",
		Long: `Fetch candidates from the upstream service, build their document summaries and
print the resulting status. With --all every page is walked in turn.`,
		RunE: runCandidates,
	}

	cmd.Flags().Int("page", 0, "page to fetch (default: upstream default)")
	cmd.Flags().Bool("all", false, "walk every page")
	cmd.Flags().String("search", "", "case-insensitive filter on name, email, status, employer, city")
	cmd.Flags().String("format", "table", "output format (table, csv, json)")

	return cmd
}

func runCandidates(cmd *cobra.Command, _ []string) error {
	page, _ := cmd.Flags().GetInt("page")
	all, _ := cmd.Flags().GetBool("all")
	search, _ := cmd.Flags().GetString("search")
	format, _ := cmd.Flags().GetString("format")

	if page < 0 {
		return services.ErrInvalidPage
	}

	svc, log := newCandidateService(cmd)
	defer func() { _ = log.Sync() }()

	records, err := collectCandidates(cmd.Context(), svc, services.ListQuery{Page: page, Search: search}, all)
	if err != nil {
		return err
	}

	return renderCandidates(cmd.OutOrStdout(), records, format)
}

// collectCandidates fetches one page, or with all set walks forward until the
// last page. The walk stops early when upstream does not advance the page, and
// never requests more pages than the first response announced.
func collectCandidates(ctx context.Context, svc services.CandidateService, query services.ListQuery, all bool) ([]models.CandidateRecord, error) {
	var records []models.CandidateRecord
	lastPage, maxPages := 0, 0

	for fetched := 0; ; fetched++ {
		result, err := svc.ListCandidates(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates: %w", err)
		}
		p := result.Pagination
		if fetched > 0 && p.CurrentPage <= lastPage {
			break
		}
		records = append(records, result.Candidates...)

		if fetched == 0 {
			maxPages = p.TotalPages
		}
		if !all || p.CurrentPage >= p.TotalPages || fetched+1 >= maxPages {
			break
		}
		lastPage = p.CurrentPage
		query.Page = p.CurrentPage + 1
	}

	return records, nil
}

func renderCandidates(w io.Writer, records []models.CandidateRecord, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []models.CandidateRecord{}
		}
		return enc.Encode(records)

	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "candidate_name", "employer", "phone", "email", "city", "status", "submitted", "missing"}); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write([]string{
				r.ID, r.CandidateName, r.Employer, r.PhoneNumber, r.Email, r.City,
				string(r.Status), strconv.Itoa(r.SubmittedCount), strconv.Itoa(r.MissingCount),
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CANDIDATE\tEMPLOYER\tPHONE\tEMAIL\tCITY\tSTATUS\tDOCS")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\n",
				r.CandidateName, r.Employer, r.PhoneNumber, r.Email, r.City,
				r.Status, r.SubmittedCount, models.RequiredDocumentCount)
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
