package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yukinote/yuki/internal/audit"
	"github.com/yukinote/yuki/internal/config"
	"github.com/yukinote/yuki/internal/entities"
	"github.com/yukinote/yuki/internal/entrypoint"
)

// QuizSaveCommand saves a batch of generated questions read from a JSON file.
type QuizSaveCommand struct {
	FilePath string
	DryRun   bool

	Config *config.Config
	Out    io.Writer
}

func NewQuizSaveCommand(cfg *config.Config) *QuizSaveCommand {
	return &QuizSaveCommand{Config: cfg, Out: os.Stdout}
}

func (cmd *QuizSaveCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("quiz-save", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON file with generated questions (required)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate and show the batch without saving it")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s quiz-save -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Save generated quiz questions. The file holds a JSON array of\n")
		fmt.Fprintf(os.Stderr, "{question, options: {a, b, c, d}, answer, explanation} objects,\n")
		fmt.Fprintf(os.Stderr, "or an object with such an array under \"questions\".\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *QuizSaveCommand) Run() error {
	ctx := context.Background()

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read questions file: %w", err)
	}

	questions, err := entities.ParseGeneratedQuestions(data)
	if err != nil {
		return fmt.Errorf("failed to parse questions file: %w", err)
	}
	fmt.Fprintf(cmd.Out, "Found %d questions in %s\n", len(questions), cmd.FilePath)

	if cmd.DryRun {
		for i, q := range questions {
			fmt.Fprintf(cmd.Out, "%d. %s (answer %s)\n", i+1, q.Question, q.AnswerKey())
		}
		fmt.Fprintln(cmd.Out, "Dry run complete. Use without -dry-run to save.")
		return nil
	}

	if cmd.Config.Audit.Enabled {
		audit.NewAuditor(cmd.Config.Audit.Dir).SaveQuizBatch("cli", questions)
	}

	provider, err := entrypoint.NewStoreProvider(cmd.Config)
	if err != nil {
		return err
	}
	defer provider.Close()

	s, err := provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	result, err := s.SaveQuizBatch(ctx, questions)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Saved %d questions at %s\n", result.Saved, entities.FormatTimestamp(result.CreatedAt))
	if !result.Checkpointed {
		return fmt.Errorf("questions saved in memory but the snapshot could not be written")
	}
	return nil
}

// QuizListCommand prints saved quiz questions, newest first.
type QuizListCommand struct {
	Config *config.Config
	Out    io.Writer
}

func NewQuizListCommand(cfg *config.Config) *QuizListCommand {
	return &QuizListCommand{Config: cfg, Out: os.Stdout}
}

func (cmd *QuizListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("quiz-list", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s quiz-list\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List saved quiz questions, newest first.\n")
	}
	return fs.Parse(args)
}

func (cmd *QuizListCommand) Run() error {
	ctx := context.Background()

	provider, err := entrypoint.NewStoreProvider(cmd.Config)
	if err != nil {
		return err
	}
	defer provider.Close()

	s, err := provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	records, err := s.TryListSavedQuestions(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.Out, "No saved questions")
		return nil
	}

	printQuizRecords(cmd.Out, records)
	fmt.Fprintf(cmd.Out, "\n%d saved questions\n", len(records))
	return nil
}
