package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidcat/internal/assets"
	"vidcat/internal/catalog"
	"vidcat/internal/fileutil"
	"vidcat/internal/source"
	"vidcat/internal/store"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var outDir string
	var persist bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the catalog from the source CSV",
		Long: `Fetch the source CSV, normalize every row into a catalog asset, and
persist the result to the local store. With --out the catalog is also
written as assets.json, facets.json, and metadata.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()

			location := strings.TrimSpace(sourceFlag)
			if location == "" {
				location = cfg.SourceLocation()
			}
			src, err := source.ForLocation(location, cfg, logger)
			if err != nil {
				return err
			}
			text, err := src.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch catalog source: %w", err)
			}

			builder := catalog.NewBuilder(logger, catalog.WithVersion(cfg.Catalog.Version))
			cat, stats, err := builder.Build(text, src.Location())
			if err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}

			if dir := strings.TrimSpace(outDir); dir != "" {
				if err := writeCatalogFiles(dir, cat); err != nil {
					return err
				}
			}
			if persist {
				err := ctx.withStore(func(st *store.Store) error {
					return st.ReplaceCatalog(cmd.Context(), cat)
				})
				if err != nil {
					return fmt.Errorf("persist catalog: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderBuildStats(src.Location(), stats))
			fmt.Fprintln(out)
			if dir := strings.TrimSpace(outDir); dir != "" {
				fmt.Fprintf(out, "Wrote catalog files to %s\n", dir)
			}
			if persist {
				fmt.Fprintf(out, "Stored %d assets in %s\n", len(cat.Assets), cfg.DatabasePath())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "CSV URL or file path (defaults to the configured source)")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for assets.json, facets.json, and metadata.json")
	cmd.Flags().BoolVar(&persist, "persist", true, "Replace the stored catalog with the build result")
	return cmd
}

func renderBuildStats(location string, stats catalog.BuildStats) string {
	layout := "simple"
	if stats.Extended {
		layout = "extended"
	}
	rows := [][]string{
		{"Source", location},
		{"Layout", layout},
		{"Rows", strconv.Itoa(stats.Rows)},
		{"Assets", strconv.Itoa(stats.Assets)},
		{"Duplicates", strconv.Itoa(stats.Duplicates)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
	}
	reasons := make([]string, 0, len(stats.SkipReasons))
	for reason := range stats.SkipReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []string{"  " + reason, strconv.Itoa(stats.SkipReasons[reason])})
	}
	return renderTable([]string{"Build", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func writeCatalogFiles(dir string, cat *assets.Catalog) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	files := []struct {
		name  string
		value any
	}{
		{"assets.json", cat.Assets},
		{"facets.json", cat.FacetCounts},
		{"metadata.json", cat.Metadata},
	}
	for _, f := range files {
		data, err := json.MarshalIndent(f.value, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		path := filepath.Join(dir, f.name)
		if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
