package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/spellbee/internal/archive"
	"codeberg.org/snonux/spellbee/internal/cli"
	"codeberg.org/snonux/spellbee/internal/models"
	"codeberg.org/snonux/spellbee/internal/processor"
)

func main() {
	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cli.ResolveFlags(flags)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.Archive {
		dest, err := archive.ArchiveResults(flags.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to archive results: %w", err)
		}
		fmt.Printf("Archived results to %s\n", dest)
		return nil
	}

	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.PrintTTSModels(ctx, os.Stdout)
	}

	var wordFile string
	if len(args) > 0 {
		wordFile = args[0]
	}

	proc := processor.NewProcessor(flags)

	switch {
	case flags.Say != "":
		return proc.SayWord(ctx, flags.Say)
	case flags.Read:
		if wordFile == "" {
			return fmt.Errorf("--read needs a word file")
		}
		if err := proc.ReadAll(ctx, wordFile); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		return nil
	default:
		// No headless mode requested - launch the GUI
		return proc.RunGUIMode(wordFile)
	}
}

