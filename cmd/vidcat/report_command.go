package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidcat/internal/issues"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var sub issues.Submission
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "report <broken|contribution|edit>",
		Short: "File an asset report on the issue tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := issues.ParseKind(args[0])
			if err != nil {
				return err
			}
			sub.Kind = kind

			out := cmd.OutOrStdout()
			if dryRun {
				report, err := issues.NewReport(sub, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Title:  %s\n", report.Title)
				fmt.Fprintf(out, "Labels: %s\n\n", strings.Join(report.Labels, ", "))
				fmt.Fprintln(out, report.Body)
				return nil
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc := issues.NewService(cfg, ctx.logger())
			if !svc.Enabled() {
				return fmt.Errorf("issue reporting is not configured; set issues.enabled and issues.token (or GITHUB_TOKEN)")
			}
			issue, err := svc.Submit(cmd.Context(), sub)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created issue #%d: %s\n", issue.Number, issue.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub.AssetURL, "url", "", "Asset URL")
	cmd.Flags().StringVar(&sub.AssetTitle, "title", "", "Asset title")
	cmd.Flags().StringVar(&sub.Description, "description", "", "What is wrong or what is being proposed")
	cmd.Flags().StringVar(&sub.UserEmail, "email", "", "Contact email (optional)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the rendered issue without filing it")
	return cmd
}
