package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yukinote/yuki/internal/config"
	"github.com/yukinote/yuki/internal/database/dictionary"
	"github.com/yukinote/yuki/internal/entrypoint"
)

// SearchCommand searches the dictionary from the command line.
type SearchCommand struct {
	Query  string
	Limit  int
	Offset int
	SortBy string

	Config *config.Config
	Out    io.Writer
}

func NewSearchCommand(cfg *config.Config) *SearchCommand {
	return &SearchCommand{Config: cfg, Out: os.Stdout}
}

func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	fs.StringVar(&cmd.Query, "q", "", "Text to look for in characters, pinyin or meaning (empty matches everything)")
	fs.IntVar(&cmd.Limit, "limit", 20, "Maximum number of entries to show")
	fs.IntVar(&cmd.Offset, "offset", 0, "Number of entries to skip")
	fs.StringVar(&cmd.SortBy, "sort", string(dictionary.SortFrequency), "Sort order: frequency or pinyin")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search [-q <text>] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search the dictionary and print matching entries.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s search -q 好\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s search -q hao -sort pinyin -limit 50\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// A bare positional argument is taken as the query.
	if cmd.Query == "" && fs.NArg() > 0 {
		cmd.Query = fs.Arg(0)
	}

	if _, err := dictionary.ParseSortKey(cmd.SortBy); err != nil {
		return err
	}
	if cmd.Limit <= 0 {
		return fmt.Errorf("-limit must be positive")
	}
	return nil
}

func (cmd *SearchCommand) Run() error {
	ctx := context.Background()

	provider, err := entrypoint.NewStoreProvider(cmd.Config)
	if err != nil {
		return err
	}
	defer provider.Close()

	s, err := provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	sortBy, _ := dictionary.ParseSortKey(cmd.SortBy)
	entries, err := s.TrySearch(ctx, cmd.Query, dictionary.QueryOptions{
		Limit:  cmd.Limit,
		Offset: cmd.Offset,
		SortBy: sortBy,
	})
	if err != nil {
		return err
	}
	total, err := s.TryCount(ctx, cmd.Query)
	if err != nil {
		return err
	}

	printEntries(cmd.Out, entries)
	fmt.Fprintf(cmd.Out, "\nShowing %d of %d matching entries\n", len(entries), total)
	return nil
}
