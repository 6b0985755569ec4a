package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// newSearchCmd creates the 'search' subcommand for querying the corpus
// from the terminal.
func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed corpus",

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFrom(cmd)
			if err != nil {
				return err
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("query is required")
			}

			results := appInstance.SearchEngine().Search(cmd.Context(), query)
			if len(results) == 0 {
				cmd.Println("no results")
				return nil
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			for i, r := range results {
				marker := ""
				if r.Fuzzy {
					marker = " (fuzzy)"
				}
				cmd.Printf("%2d. [%.2f]%s %s\n    %s\n    %s\n", i+1, r.Score, marker, r.Title, r.URL, r.Snippet)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results to print")
	return cmd
}
