package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olegrjumin/siteaudit/internal/checker"
	"github.com/olegrjumin/siteaudit/internal/report"
	"github.com/olegrjumin/siteaudit/internal/service"
)

func newAnalyzeCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Audit one page and print the report",
		Long: `Audit one page and print the report.

Exit status is 2 for a missing or malformed URL and 3 when the page
could not be fetched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			format := report.Format("")
			if formatName != "summary" {
				f, err := report.ParseFormat(formatName)
				if err != nil {
					return &exitError{code: exitFailure, err: err}
				}
				format = f
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc := service.New(newChecker(state.cfg), state.logger, nil, checkerOptions(state.cfg))
			return runAnalyze(ctx, cmd.OutOrStdout(), svc, args[0], format)
		},
	}
	cmd.Flags().StringP("format", "f", "summary", "output format: summary, json, markdown, html, text, pdf")
	return cmd
}

// runAnalyze prints the report; an empty format prints the colored summary
func runAnalyze(ctx context.Context, out io.Writer, svc *service.Service, rawURL string, format report.Format) error {
	result, err := svc.Analyze(ctx, rawURL)
	if err != nil {
		switch {
		case errors.Is(err, checker.ErrMissingURL), errors.Is(err, checker.ErrInvalidURL):
			return &exitError{code: exitInvalidURL, err: err}
		case errors.Is(err, checker.ErrFetchFailed):
			return &exitError{code: exitFetchFailed, err: err}
		default:
			return err
		}
	}

	if format == "" {
		printSummary(out, result)
		return nil
	}
	return report.Render(out, result, format)
}

func printSummary(out io.Writer, r *checker.AnalysisReport) {
	fmt.Fprintf(out, "%s %s\n", colorInfo("→"), colorBold(r.URL))
	fmt.Fprintf(out, "Overall:       %s\n", colorScore(r.OverallScore, fmt.Sprintf("%d (%s)", r.OverallScore, r.Grade)))
	fmt.Fprintf(out, "Security:      %s\n", colorScore(r.Scores.Security, fmt.Sprint(r.Scores.Security)))
	fmt.Fprintf(out, "GDPR:          %s\n", colorScore(r.Scores.GDPR, fmt.Sprint(r.Scores.GDPR)))
	fmt.Fprintf(out, "Accessibility: %s\n", colorScore(r.Scores.Accessibility, fmt.Sprint(r.Scores.Accessibility)))

	if r.Security.IsWordPress {
		platform := "WordPress"
		if r.Security.Version != "" {
			platform += " " + r.Security.Version
		}
		fmt.Fprintf(out, "Platform:      %s (%s)\n", platform, r.Security.DetectionMethod)
	}

	if len(r.Recommendations) == 0 {
		fmt.Fprintf(out, "%s No issues found\n", colorSuccess("✓"))
		return
	}
	fmt.Fprintln(out, "Recommendations:")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(out, "  [%s] %s\n", colorSeverity(rec.Severity), rec.Title)
	}
}
