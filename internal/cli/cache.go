package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/repolens/repolens/pkg/store"
)

// newCacheCmd creates the "cache" command group. All subcommands operate on
// the cache of a running server via its HTTP API.
func newCacheCmd(configPath *string) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the analysis cache",
	}
	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "base URL of a running repolens server (overrides config)")

	client := func(cmd *cobra.Command) (*apiClient, error) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		base := cfg.Server
		if serverURL != "" {
			base = serverURL
		}
		return newAPIClient(base), nil
	}

	cmd.AddCommand(newCacheStatsCmd(client))
	cmd.AddCommand(newCacheTopCmd(client))
	cmd.AddCommand(newCacheSearchCmd(client, configPath))
	cmd.AddCommand(newCacheSweepCmd(client))
	cmd.AddCommand(newCacheClearCmd(client))
	cmd.AddCommand(newCacheBrowseCmd(client, configPath))
	return cmd
}

type clientFunc func(cmd *cobra.Command) (*apiClient, error)

func newCacheStatsCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(cmd)
			if err != nil {
				return err
			}
			st, err := c.stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Cache statistics"))
			printDetail("Entries      %s (%d valid, %d expired)",
				StyleNumber.Render(fmt.Sprint(st.TotalEntries)), st.ValidEntries, st.ExpiredEntries)
			printDetail("Accesses     %s total, %.1f mean",
				StyleNumber.Render(fmt.Sprint(st.TotalAccesses)), st.MeanAccesses)
			if !st.OldestCreated.IsZero() {
				printDetail("Oldest entry %s", formatAge(time.Since(st.OldestCreated)))
				printDetail("Newest entry %s", formatAge(time.Since(st.NewestCreated)))
			}
			return nil
		},
	}
}

func newCacheTopCmd(client clientFunc) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most-accessed cached repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(cmd)
			if err != nil {
				return err
			}
			entries, err := c.top(cmd.Context(), n)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Cache is empty")
				return nil
			}
			for i, e := range entries {
				printDetail("%2d. %s  %s accesses",
					i+1, StyleValue.Render(e.Key), StyleNumber.Render(fmt.Sprint(e.AccessCount)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 10, "how many entries to list")
	return cmd
}

func newCacheSearchCmd(client clientFunc, configPath *string) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			result, err := c.search(cmd.Context(), args[0], page, cfg.PageSize)
			if err != nil {
				return err
			}
			if result.Total == 0 {
				printError("No cached repositories match %q", args[0])
				return nil
			}

			printInfo("%d matches (page %d)", result.Total, result.Page)
			printEntryList(result.Entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func newCacheSweepCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(cmd)
			if err != nil {
				return err
			}
			removed, err := c.sweep(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Removed %d expired entries", removed)
			return nil
		},
	}
}

func newCacheClearCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(cmd)
			if err != nil {
				return err
			}
			removed, err := c.clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Cleared %d entries", removed)
			return nil
		},
	}
}

func newCacheBrowseCmd(client clientFunc, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse cached repositories interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			page, err := c.recent(cmd.Context(), 1, cfg.PageSize)
			if err != nil {
				return err
			}
			if len(page.Entries) == 0 {
				printInfo("Cache is empty")
				return nil
			}

			model := newEntryListModel(page.Entries)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(entryListModel); ok && m.Selected != nil {
				printEntryDetail(*m.Selected)
			}
			return nil
		},
	}
}

func printEntryList(entries []store.Entry) {
	for _, e := range entries {
		score := "-"
		if e.Record != nil {
			score = fmt.Sprintf("%d", e.Record.Analysis.QualityScore)
		}
		printDetail("%s  score %s  %s accesses  age %s",
			StyleValue.Render(e.Key),
			StyleNumber.Render(score),
			StyleNumber.Render(fmt.Sprint(e.AccessCount)),
			formatAge(time.Since(e.CreatedAt)))
	}
}

func printEntryDetail(e store.Entry) {
	fmt.Println()
	fmt.Println(StyleTitle.Render(e.Key))
	if e.Record != nil {
		meta := e.Record.Metadata
		if meta.Description != "" {
			printDetail("%s", StyleDim.Render(meta.Description))
		}
		printDetail("Stars %d  Language %s  Score %d/100",
			meta.Stars, e.Record.Languages.Primary, e.Record.Analysis.QualityScore)
	}
	printDetail("Cached %s ago, expires in %s, %d accesses",
		formatAge(time.Since(e.CreatedAt)),
		formatAge(time.Until(e.ExpiresAt)),
		e.AccessCount)
}
