package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidcat/internal/store"
)

func newSearchesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "Manage saved searches and search history",
	}

	cmd.AddCommand(newSearchesSaveCommand(ctx))
	cmd.AddCommand(newSearchesListCommand(ctx))
	cmd.AddCommand(newSearchesDeleteCommand(ctx))
	cmd.AddCommand(newSearchesHistoryCommand(ctx))
	return cmd
}

func newSearchesSaveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <query...>",
		Short: "Save an advanced query under a name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				saved, err := st.SaveSearch(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved search %q (%s)\n", saved.Name, saved.ID)
				return nil
			})
		},
	}
}

func newSearchesListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved searches, most recently used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				list, err := st.ListSearches(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved searches")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, s := range list {
					rows = append(rows, []string{s.ID, s.Name, s.Query, s.LastUsed.Local().Format("2006-01-02 15:04")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Query", "Last Used"}, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSearchesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteSearch(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted saved search %s\n", args[0])
				return nil
			})
		},
	}
}

func newSearchesHistoryCommand(ctx *commandContext) *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent advanced queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				out := cmd.OutOrStdout()
				if clearHistory {
					if err := st.ClearHistory(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(out, "Search history cleared")
					return nil
				}
				history, err := st.History(cmd.Context())
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Fprintln(out, "No search history")
					return nil
				}
				for i, q := range history {
					fmt.Fprintf(out, "%2d. %s\n", i+1, q)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Clear the history")
	return cmd
}
