package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lunar/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <identifier>",
	Short: "Download a paper's PDF by DOI",
	Long: `Fetch requests the paper with the given identifier from the configured
document provider and saves it as <identifier>.pdf in the output directory.
Path separators in the identifier are replaced with underscores.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("output-dir", "", "directory for downloaded PDFs (default: current directory)")
	fetchCmd.Flags().String("url-template", "", "document provider URL with {identifier} placeholder")

	_ = viper.BindPFlag("retrieve.output_dir", fetchCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("retrieve.url_template", fetchCmd.Flags().Lookup("url-template"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	var identifier string
	if len(args) == 1 {
		identifier = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tool := pipeline.New(nil, nil, newRetriever(cfg), logger)

	fmt.Fprintf(cmd.ErrOrStderr(), "downloading: %s\n", identifier)
	path, msg := tool.SubmitIdentifier(cmd.Context(), identifier)
	if path == "" {
		return errors.New(msg)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
