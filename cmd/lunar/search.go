package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lunar/internal/pipeline"
	"github.com/pdiddy/lunar/internal/report"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search for papers on a topic and summarize their abstracts",
	Long: `Search queries the configured provider (Google Scholar by default) for
papers matching the topic, summarizes each abstract, and prints one block per
paper with its title, authors, summary, and link.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("backend", "", "search provider: arxiv, openalex, scholar, semantic_scholar")
	searchCmd.Flags().Int("max-results", 0, "maximum number of papers (default 5)")
	searchCmd.Flags().Bool("strict", false, "fail when the provider returns fewer papers than requested")
	searchCmd.Flags().String("summarizer", "", "summarization provider: anthropic or extractive")
	searchCmd.Flags().String("format", "text", "output format: text, json, or csl")
	searchCmd.Flags().String("out", "", "write the report to a file instead of stdout")

	_ = viper.BindPFlag("search.backend", searchCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("search.max_results", searchCmd.Flags().Lookup("max-results"))
	_ = viper.BindPFlag("search.strict", searchCmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("summarize.provider", searchCmd.Flags().Lookup("summarizer"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	style, err := report.ParseStyle(format)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	searcher, err := newSearcher(cfg)
	if err != nil {
		return err
	}
	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return err
	}
	tool := pipeline.New(searcher, summarizer, nil, logger)

	query := strings.Join(args, " ")
	res, err := tool.Research(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching papers: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	if err := report.Write(style, res.Entries, w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if footer := report.Footer(len(res.Entries), res.Search.Requested); footer != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), footer)
	}
	if outPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s (%d papers)\n", outPath, len(res.Entries))
	}
	return nil
}
