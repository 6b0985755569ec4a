package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newIngestCmd creates the 'ingest' subcommand: pull article URLs out of
// RSS/Atom feeds and crawl them as seeds.
func newIngestCmd() *cobra.Command {
	var feedFile string
	cmd := &cobra.Command{
		Use:   "ingest [feed-url...]",
		Short: "Discover seeds from RSS/Atom feeds and crawl them",

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFrom(cmd)
			if err != nil {
				return err
			}

			feedURLs := append([]string(nil), args...)
			if feedFile != "" {
				fromFile, err := readSeedFile(feedFile)
				if err != nil {
					return err
				}
				feedURLs = append(feedURLs, fromFile...)
			}
			if len(feedURLs) == 0 {
				return errors.New("no feed URLs: pass them as arguments or via --feed-file")
			}

			entries := appInstance.FeedFetcher().FetchAll(cmd.Context(), feedURLs)
			if len(entries) == 0 {
				return errors.New("feeds yielded no entries")
			}
			seeds := make([]string, 0, len(entries))
			for _, entry := range entries {
				seeds = append(seeds, entry.URL)
			}
			cmd.Printf("discovered %d article URLs from %d feeds\n", len(seeds), len(feedURLs))

			c, err := appInstance.Crawler(cmd.Context())
			if err != nil {
				return fmt.Errorf("build crawler: %w", err)
			}
			summary, err := c.Crawl(cmd.Context(), seeds)
			if err != nil {
				return fmt.Errorf("run crawl: %w", err)
			}
			cmd.Printf("accepted %d, rejected %d, skipped %d\n", summary.Accepted, summary.Rejected, summary.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&feedFile, "feed-file", "", "file with one feed URL per line")
	return cmd
}
