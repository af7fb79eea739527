package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hiroki-koketsu/studysprint/internal/idgen"
	"github.com/hiroki-koketsu/studysprint/internal/repository"
	"github.com/hiroki-koketsu/studysprint/internal/telemetry"
	"github.com/hiroki-koketsu/studysprint/internal/tui"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("studysprint-tui", pflag.ContinueOnError)
	logFile := flags.String("log-file", "", "write JSON log records to this file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	// The terminal is owned by the UI, so logs go to a file or nowhere.
	var out io.Writer
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := telemetry.NewLocalLogger(out, "studysprint-tui")

	m := tui.New(repository.NewTaskRepository(), idgen.UUID{}, logger)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
