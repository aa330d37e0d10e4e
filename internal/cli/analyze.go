package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/pkg/analyzer"
	"github.com/repolens/repolens/pkg/github"
	"github.com/repolens/repolens/pkg/service"
	"github.com/repolens/repolens/pkg/store"
)

// newAnalyzeCmd creates the "analyze" command: a one-shot analysis run
// against a repository reference, printed as a styled report or JSON.
func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		refresh bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <repository>",
		Short: "Analyze a repository and print its report",
		Long: `Analyze gathers metadata, README, languages, technology stack, and
activity analytics for a repository given as URL, SSH reference, or
owner/repo, then prints the derived scores.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			client := github.NewClient(cfg.GitHubToken)
			agg := analyzer.New(client, analyzer.WithLogger(logger))
			st := store.New(store.WithTTL(cfg.CacheTTL.Duration))
			svc := service.New(agg, st, service.WithLogger(logger))

			prog := newProgress(logger)
			res, err := svc.Analyze(cmd.Context(), args[0], refresh)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Analyzed %s", res.Key))

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printReport(res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-aggregate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record as JSON")
	return cmd
}

func printReport(res *service.Result) {
	rec := res.Record
	meta := rec.Metadata

	fmt.Println()
	fmt.Println(StyleTitle.Render(meta.FullName))
	if meta.Description != "" {
		fmt.Println(StyleDim.Render(meta.Description))
	}
	if meta.Homepage != "" {
		fmt.Println(StyleLink.Render(meta.Homepage))
	}
	fmt.Println()

	printDetail("Stars %s  Forks %s  Watchers %s",
		StyleNumber.Render(fmt.Sprint(meta.Stars)),
		StyleNumber.Render(fmt.Sprint(meta.Forks)),
		StyleNumber.Render(fmt.Sprint(meta.Watchers)))
	printDetail("Commits %s  Contributors %s  Releases %s",
		StyleNumber.Render(fmt.Sprint(rec.Activity.Commits)),
		StyleNumber.Render(fmt.Sprint(rec.Activity.Contributors)),
		StyleNumber.Render(fmt.Sprint(rec.Activity.Releases)))
	if meta.License != "" {
		printDetail("License %s", StyleValue.Render(meta.License))
	}

	fmt.Println()
	printInfo("Primary language: %s", StyleHighlight.Render(rec.Languages.Primary))
	printBuckets(rec)

	if len(rec.Features) > 0 {
		fmt.Println()
		fmt.Println(StyleTitle.Render("Features"))
		for _, f := range rec.Features {
			printDetail("- %s", f)
		}
	}

	fmt.Println()
	fmt.Println(StyleTitle.Render("Analysis"))
	printDetail("Category      %s", StyleValue.Render(rec.Analysis.Category))
	printDetail("Complexity    %s", StyleValue.Render(rec.Analysis.Complexity))
	printDetail("Deployability %s", StyleValue.Render(rec.Analysis.Deployability))
	printDetail("Quality score %s", StyleNumber.Render(fmt.Sprintf("%d/100", rec.Analysis.QualityScore)))

	fmt.Println()
	printCacheBadge(res)
}

func printBuckets(rec *analyzer.CompositeRecord) {
	buckets := []struct {
		name   string
		labels []string
	}{
		{"Frontend", rec.Stack.Frontend},
		{"Backend", rec.Stack.Backend},
		{"Database", rec.Stack.Database},
		{"Frameworks", rec.Stack.Frameworks},
		{"Tools", rec.Stack.Tools},
	}
	for _, b := range buckets {
		if len(b.labels) == 0 {
			continue
		}
		printDetail("%-10s %s", b.name, StyleValue.Render(strings.Join(b.labels, ", ")))
	}
}

func printCacheBadge(res *service.Result) {
	if res.Cached {
		printInfo("%s  age %s, %d accesses",
			styleCached.Render(badgeCached),
			res.CacheAge.Round(timeRound),
			res.AccessCount)
		return
	}
	printInfo("%s", styleComputed.Render(badgeFresh))
}
