package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pybash1/provoke/internal/crawler"
)

// newDomainsCmd creates the 'domains' subcommand tree for curating the
// blacklist and whitelist from the terminal.
func newDomainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Inspect and edit the domain blacklist and whitelist",
	}
	cmd.AddCommand(newDomainsListCmd())
	cmd.AddCommand(newDomainsEditCmd("block", "Add a domain to the blacklist",
		func(a App) func(context.Context, string) error { return a.Store().AddToBlacklist }))
	cmd.AddCommand(newDomainsEditCmd("unblock", "Remove a domain from the blacklist",
		func(a App) func(context.Context, string) error { return a.Store().RemoveFromBlacklist }))
	cmd.AddCommand(newDomainsEditCmd("trust", "Add a domain to the whitelist",
		func(a App) func(context.Context, string) error { return a.Store().AddToWhitelist }))
	cmd.AddCommand(newDomainsEditCmd("untrust", "Remove a domain from the whitelist",
		func(a App) func(context.Context, string) error { return a.Store().RemoveFromWhitelist }))
	return cmd
}

func newDomainsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print both domain lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := appFrom(cmd)
			if err != nil {
				return err
			}
			blacklist, whitelist, err := appInstance.Store().LoadDomainLists(cmd.Context())
			if err != nil {
				return fmt.Errorf("load domain lists: %w", err)
			}
			cmd.Println("blacklist:")
			for _, d := range sortedKeys(blacklist) {
				cmd.Printf("  %s\n", d)
			}
			cmd.Println("whitelist:")
			for _, d := range sortedKeys(whitelist) {
				cmd.Printf("  %s\n", d)
			}
			return nil
		},
	}
}

func newDomainsEditCmd(use, short string, pick func(App) func(context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <domain>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFrom(cmd)
			if err != nil {
				return err
			}
			domain, err := crawler.HostOf(args[0])
			if err != nil {
				return err
			}
			if err := pick(appInstance)(cmd.Context(), domain); err != nil {
				return fmt.Errorf("update domain list: %w", err)
			}
			cmd.Printf("%s: %s\n", use, domain)
			return nil
		},
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
