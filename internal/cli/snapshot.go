package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yukinote/yuki/internal/config"
	"github.com/yukinote/yuki/internal/entrypoint"
)

// SnapshotExportCommand writes the current store image to a file.
type SnapshotExportCommand struct {
	OutPath string

	Config *config.Config
	Out    io.Writer
}

func NewSnapshotExportCommand(cfg *config.Config) *SnapshotExportCommand {
	return &SnapshotExportCommand{Config: cfg, Out: os.Stdout}
}

func (cmd *SnapshotExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("snapshot-export", flag.ExitOnError)

	fs.StringVar(&cmd.OutPath, "out", "", "Destination file for the SQLite image (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s snapshot-export -out <path>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the dictionary and saved questions as a plain SQLite file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutPath == "" {
		return fmt.Errorf("required flag -out not provided")
	}
	return nil
}

func (cmd *SnapshotExportCommand) Run() error {
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

	image, err := s.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.OutPath, image, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.OutPath, err)
	}

	fmt.Fprintf(cmd.Out, "Exported %d bytes from %s to %s\n", len(image), s.Source(), cmd.OutPath)
	return nil
}

// SnapshotResetCommand deletes the persisted snapshot so the next start
// loads the bundled dataset again. Saved questions are lost.
type SnapshotResetCommand struct {
	Force bool

	Config *config.Config
	Out    io.Writer
}

func NewSnapshotResetCommand(cfg *config.Config) *SnapshotResetCommand {
	return &SnapshotResetCommand{Config: cfg, Out: os.Stdout}
}

func (cmd *SnapshotResetCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("snapshot-reset", flag.ExitOnError)

	fs.BoolVar(&cmd.Force, "force", false, "Confirm that saved questions may be discarded")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s snapshot-reset -force\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete the persisted store. All saved quiz questions are discarded.\n")
		fmt.Fprintf(os.Stderr, "Consider running snapshot-export first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !cmd.Force {
		return fmt.Errorf("refusing to discard saved questions without -force")
	}
	return nil
}

func (cmd *SnapshotResetCommand) Run() error {
	provider, err := entrypoint.NewStoreProvider(cmd.Config)
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := provider.Reset(context.Background()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Snapshot %q removed from %s\n", cmd.Config.Snapshot.Key, cmd.Config.Snapshot.Dir)
	return nil
}
