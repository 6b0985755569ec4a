package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	var seedFile string
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl seed URLs and index the pages that pass quality filtering",
		Long: `Fetches each seed URL and the links discovered beneath it up to the
configured depth. Every page is scored; accepted pages are stored and
indexed, rejected pages are logged with their rejection reasons.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFrom(cmd)
			if err != nil {
				return err
			}

			seeds := append([]string(nil), args...)
			if seedFile != "" {
				fromFile, err := readSeedFile(seedFile)
				if err != nil {
					return err
				}
				seeds = append(seeds, fromFile...)
			}
			if len(seeds) == 0 {
				return errors.New("no seed URLs: pass them as arguments or via --seed-file")
			}

			c, err := appInstance.Crawler(cmd.Context())
			if err != nil {
				return fmt.Errorf("build crawler: %w", err)
			}

			summary, err := c.Crawl(cmd.Context(), seeds)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("run crawl: %w", err)
			}

			appInstance.Logger().Info("Crawl finished",
				zap.Int("fetched", summary.Fetched),
				zap.Int("accepted", summary.Accepted),
				zap.Int("rejected", summary.Rejected),
				zap.Int("skipped", summary.Skipped),
				zap.Int("errors", summary.Errors),
				zap.Strings("blacklisted", summary.Blacklisted),
				zap.Bool("halted", summary.Halted),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "file with one seed URL per line")
	return cmd
}

func readSeedFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return seeds, nil
}
