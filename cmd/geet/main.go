package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/geet/internal/archive"
	"codeberg.org/snonux/geet/internal/cli"
	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/models"
	"codeberg.org/snonux/geet/internal/store"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cli.ApplyConfig(flags)
		if err := logger.Init(cli.LoggerConfig(flags)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	}

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	addCommands(rootCmd, flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	ctx := cmd.Context()

	// Handle --archive flag
	if flags.Archive {
		return archiveLibrary(ctx, flags.DBPath)
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), "")
		return lister.ListAvailableModels(ctx)
	}

	return cmd.Help()
}

// archiveLibrary keeps a JSON snapshot of the library next to the archived
// database file so the songs stay readable without SQLite.
func archiveLibrary(ctx context.Context, dbPath string) error {
	library, err := store.Open(dbPath)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	exportErr := library.Export(ctx, &buf)
	library.Close()
	if exportErr != nil {
		return fmt.Errorf("failed to export library: %w", exportErr)
	}

	snapshot, err := archive.WriteSnapshot(filepath.Dir(dbPath), buf.Bytes())
	if err != nil {
		return err
	}
	fmt.Printf("Library snapshot written to: %s\n", snapshot)

	if _, err := archive.ArchiveLibrary(dbPath); err != nil {
		return fmt.Errorf("failed to archive library: %w", err)
	}
	return nil
}
