package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidcat/internal/assets"
	"vidcat/internal/filter"
	"vidcat/internal/logging"
	"vidcat/internal/quality"
	"vidcat/internal/store"
)

type searchFlags struct {
	filters  []string
	advanced bool
	sort     string
	order    string
	limit    int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Facet selection as facet=value (repeatable, values may be comma separated)")
	cmd.Flags().BoolVar(&f.advanced, "advanced", false, "Treat the query as advanced syntax (AND/OR/NOT, field:value)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort key: category, host, protocols, codecs, resolution, quality")
	cmd.Flags().StringVar(&f.order, "order", "", "Sort order: asc or desc")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of assets to list (0 lists all)")
}

// criteria turns the flags and positional query into filter criteria.
func (f *searchFlags) criteria(args []string) (filter.Criteria, error) {
	var c filter.Criteria
	text := strings.TrimSpace(strings.Join(args, " "))
	if f.advanced {
		c.Query = text
	} else {
		c.State.Search = text
	}
	for _, raw := range f.filters {
		name, values, ok := strings.Cut(raw, "=")
		if !ok {
			return c, fmt.Errorf("invalid filter %q (expected facet=value)", raw)
		}
		facet, ok := assets.ParseFacet(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return c, fmt.Errorf("unknown facet %q", name)
		}
		for value := range strings.SplitSeq(values, ",") {
			if value = strings.TrimSpace(value); value != "" {
				c.State.Select(facet, value)
			}
		}
	}
	by, order, err := filter.ParseSort(f.sort, f.order)
	if err != nil {
		return c, err
	}
	c.Sort, c.Order = by, order
	if f.limit < 0 {
		return c, fmt.Errorf("--limit must not be negative")
	}
	c.Limit = f.limit
	return c, nil
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var flags searchFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the stored catalog",
		Long: `Search the stored catalog by free text and facet selections.

With --advanced the query accepts AND, OR, NOT, quoted phrases, and
field:value predicates (protocol, codec, resolution, hdr, container, host,
category, feature, notes). Advanced queries are recorded in search history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria(args)
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				cat, err := loadCatalog(cmd.Context(), st)
				if err != nil {
					return err
				}
				matched, total := criteria.Run(cat.Assets)
				if criteria.Query != "" {
					if err := st.AddHistory(cmd.Context(), criteria.Query); err != nil {
						ctx.logger().Warn("search history not recorded", logging.Error(err))
					}
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{
						"assets":             matched,
						"total":              total,
						"activeFilterCount":  filter.ActiveFilterCount(criteria.State),
						"activeFilterLabels": filter.ActiveFilterLabels(criteria.State),
					})
				}
				out := cmd.OutOrStdout()
				if labels := filter.ActiveFilterLabels(criteria.State); len(labels) > 0 {
					fmt.Fprintf(out, "Filters: %s\n", strings.Join(labels, ", "))
				}
				if len(matched) == 0 {
					fmt.Fprintln(out, "No assets match")
					return nil
				}
				fmt.Fprintln(out, renderAssetTable(matched))
				fmt.Fprintf(out, "Showing %d of %d matching assets (%d in catalog)\n", len(matched), total, len(cat.Assets))
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				asset, err := findAsset(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, asset)
				}
				rows := [][]string{
					{"ID", asset.ID},
					{"URL", asset.URL},
					{"Host", asset.Host},
					{"Scheme", asset.Scheme},
					{"Category", orDash(asset.Category)},
					{"Protocol", orDash(joinTags(asset.Protocol))},
					{"Codec", orDash(joinTags(asset.Codec))},
					{"Resolution", orDash(resolutionDetail(asset))},
					{"HDR", string(asset.HDR)},
					{"Container", orDash(string(asset.Container))},
					{"Features", orDash(strings.Join(asset.Features, ", "))},
					{"Notes", orDash(asset.Notes)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func resolutionDetail(a assets.Asset) string {
	if a.Resolution == nil {
		return ""
	}
	if a.Resolution.Width == 0 || a.Resolution.Height == 0 {
		return a.Resolution.Label
	}
	return fmt.Sprintf("%s (%dx%d)", a.Resolution.Label, a.Resolution.Width, a.Resolution.Height)
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score <id>",
		Short: "Show the quality score of one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				asset, err := findAsset(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				result := quality.Score(asset)
				if asJSON {
					return writeJSON(cmd, quality.Scored{Asset: asset, Score: result})
				}
				out := cmd.OutOrStdout()
				b := result.Breakdown
				rows := [][]string{
					{"Protocol", strconv.Itoa(b.Protocol), strconv.Itoa(quality.MaxProtocol)},
					{"Codec", strconv.Itoa(b.Codec), strconv.Itoa(quality.MaxCodec)},
					{"Resolution", strconv.Itoa(b.Resolution), strconv.Itoa(quality.MaxResolution)},
					{"HDR", strconv.Itoa(b.HDR), strconv.Itoa(quality.MaxHDR)},
					{"Container", strconv.Itoa(b.Container), strconv.Itoa(quality.MaxContainer)},
					{"Features", strconv.Itoa(b.Features), strconv.Itoa(quality.MaxFeatures)},
				}
				fmt.Fprintf(out, "%s\n", asset.URL)
				fmt.Fprintln(out, renderTable([]string{"Dimension", "Points", "Max"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignRight}))
				fmt.Fprintf(out, "Overall: %d (%s)\n", result.Overall, gradeText(result.Grade, shouldColorize(out)))
				for _, rec := range result.Recommendations {
					fmt.Fprintf(out, "  - %s\n", rec)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "List the highest quality assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				cat, err := loadCatalog(cmd.Context(), st)
				if err != nil {
					return err
				}
				top := quality.Recommend(cat.Assets, limit)
				dist := quality.Distribute(cat.Assets)
				if asJSON {
					return writeJSON(cmd, map[string]any{
						"recommendations": top,
						"distribution":    dist,
					})
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderScoredTable(top, colorize))
				parts := make([]string, 0, len(quality.Grades))
				for _, g := range quality.Grades {
					parts = append(parts, fmt.Sprintf("%s:%d", gradeText(g, colorize), dist[g]))
				}
				fmt.Fprintf(out, "Grades: %s\n", strings.Join(parts, " "))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", quality.DefaultRecommendLimit, "Number of assets to recommend")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newFacetsCommand(ctx *commandContext) *cobra.Command {
	var facetName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Show facet value counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := assets.Facets
			if name := strings.ToLower(strings.TrimSpace(facetName)); name != "" {
				f, ok := assets.ParseFacet(name)
				if !ok {
					return fmt.Errorf("unknown facet %q", facetName)
				}
				selected = []assets.Facet{f}
			}
			return ctx.withStore(func(st *store.Store) error {
				cat, err := loadCatalog(cmd.Context(), st)
				if err != nil {
					return err
				}
				if asJSON {
					if len(selected) == 1 {
						return writeJSON(cmd, cat.FacetCounts[selected[0]])
					}
					return writeJSON(cmd, cat.FacetCounts)
				}
				rows := make([][]string, 0)
				for _, f := range selected {
					for _, v := range cat.FacetCounts[f] {
						rows = append(rows, []string{string(f), filter.Label(f, v.Value), strconv.Itoa(v.Count)})
					}
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No facet values")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Facet", "Value", "Assets"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&facetName, "facet", "", "Limit output to one facet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
