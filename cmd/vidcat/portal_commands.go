package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidcat/internal/daemonctl"
	"vidcat/internal/daemonrun"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog portal in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := daemonrun.Options{Bind: bind}
			if ctx.logLevelFlag != nil {
				opts.LogLevel = *ctx.logLevelFlag
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides paths.api_bind)")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running portal's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			status, err := daemonctl.NewClient(cfg).Status(cmd.Context())
			if errors.Is(err, daemonctl.ErrUnreachable) {
				if running, pid, _ := daemonctl.ProcessInfo(cfg); running {
					return fmt.Errorf("portal process %d is running but not answering at %s", pid, cfg.Paths.APIBind)
				}
				fmt.Fprintln(stdout, "Portal is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, status)
			}

			rows := [][]string{
				{"Running", yesNo(status.Running)},
				{"Address", orDash(status.Address)},
				{"Source", status.Source},
				{"Assets", strconv.Itoa(status.Assets)},
				{"Last Build", formatTime(status.LastBuild)},
				{"Loaded At", formatTime(status.LoadedAt)},
				{"Last Error", orDash(status.LastError)},
				{"Breaker", orDash(status.Breaker)},
				{"Issues Enabled", yesNo(status.IssuesEnabled)},
				{"Database", status.DatabasePath},
			}
			fmt.Fprintln(stdout, renderTable([]string{"Portal", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the running portal to rebuild its catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resp, err := daemonctl.NewClient(cfg).Reload(cmd.Context())
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			fmt.Fprint(stdout, renderBuildStats(resp.Metadata.SourceURL, resp.BuildStats))
			fmt.Fprintln(stdout)
			fmt.Fprintf(stdout, "Portal %s %d assets\n", strings.TrimSpace(resp.Status), resp.Metadata.TotalAssets)
			return nil
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
