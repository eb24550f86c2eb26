package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pdiddy/lunar/internal/pipeline"
	"github.com/pdiddy/lunar/internal/summarize"
	"github.com/pdiddy/lunar/pkg/types"
)

const shellHelp = `Commands:
  search <topic>      find papers on a topic and summarize their abstracts
  fetch <identifier>  download a paper's PDF by DOI
  help                show this help
  quit                leave the shell`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session for searching and fetching papers",
	Long: `Shell starts an interactive prompt offering the two lunar actions: search a
topic for summarized papers, and fetch a paper by identifier. Each command is
independent; a failed command prints its error and the prompt continues.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
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
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using extractive summaries\n", err)
		fallback := cfg.Summarize
		fallback.Provider = types.SummarizerExtractive
		if summarizer, err = summarize.New(fallback); err != nil {
			return err
		}
	}

	sh := &shell{
		tool:   pipeline.New(searcher, summarizer, newRetriever(cfg), logger),
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		prompt: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
	return sh.run(cmd.Context())
}

// shell reads one command per line and writes each result to out.
type shell struct {
	tool   *pipeline.Tool
	in     io.Reader
	out    io.Writer
	prompt bool
}

func (s *shell) run(ctx context.Context) error {
	if s.prompt {
		fmt.Fprintln(s.out, "lunar: type \"help\" for commands")
	}

	// Lines are read in a goroutine so an interrupt at the prompt ends the
	// shell without waiting for the next line.
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if s.prompt {
			fmt.Fprint(s.out, "lunar> ")
		}
		select {
		case <-ctx.Done():
			if s.prompt {
				fmt.Fprintln(s.out)
			}
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if quit := s.dispatch(ctx, line); quit {
				return nil
			}
		}
	}
}

// dispatch runs one command line. It reports whether the shell should exit.
func (s *shell) dispatch(ctx context.Context, line string) bool {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "":
	case "search":
		fmt.Fprintln(s.out, s.tool.SubmitQuery(ctx, rest))
	case "fetch":
		_, msg := s.tool.SubmitIdentifier(ctx, rest)
		fmt.Fprintln(s.out, msg)
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %q; type \"help\" for commands\n", verb)
	}
	return false
}
