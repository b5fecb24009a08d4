package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidcat/internal/export"
	"vidcat/internal/fileutil"
	"vidcat/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var flags searchFlags
	var formatName string
	var outPath string
	var fields []string
	var includeScores bool
	var includeRecommendations bool

	cmd := &cobra.Command{
		Use:   "export [query...]",
		Short: "Export the stored catalog or a filtered subset",
		Long: `Export assets as csv, json, xlsx, or txt. The same query and filter
flags as search narrow the exported set. Use --out - to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			criteria, err := flags.criteria(args)
			if err != nil {
				return err
			}
			opts := export.Options{
				Format:                 format,
				IncludeScores:          includeScores,
				IncludeRecommendations: includeRecommendations,
				Fields:                 fields,
			}
			return ctx.withStore(func(st *store.Store) error {
				cat, err := loadCatalog(cmd.Context(), st)
				if err != nil {
					return err
				}
				matched, _ := criteria.Run(cat.Assets)

				target := strings.TrimSpace(outPath)
				if target == "-" {
					return export.Write(cmd.OutOrStdout(), matched, opts)
				}
				if target == "" {
					target = export.Filename(format, time.Now())
				}
				err = fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
					return export.Write(w, matched, opts)
				})
				if err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d assets to %s\n", len(matched), target)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&formatName, "format", string(export.FormatCSV), "Export format: csv, json, xlsx, txt")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (defaults to video-assets-<date>.<ext>; - for stdout)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Asset columns to include (default all): "+strings.Join(export.FieldNames(), ", "))
	cmd.Flags().BoolVar(&includeScores, "include-scores", false, "Add quality score and grade columns")
	cmd.Flags().BoolVar(&includeRecommendations, "include-recommendations", false, "Add quality recommendations")
	return cmd
}
