package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/fleetassist/internal/config"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/fixture"
	"github.com/jask/fleetassist/internal/roster"
	"github.com/jask/fleetassist/internal/tui"
	"github.com/jask/fleetassist/internal/version"
	"github.com/jask/fleetassist/internal/workflow"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:     "fleetassist",
		Short:   "Guided fleet onboarding assistant",
		Version: version.String(),
		Long: `fleetassist is a terminal assistant for fleet managers. It walks you
through building a vehicle inspection form and getting your drivers ready
for mobile inspections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath != "" {
				os.Setenv("FLEETASSIST_CONFIG", cfgPath)
			}
			return run()
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	seed, err := fixture.Drivers()
	if err != nil {
		return fmt.Errorf("load driver fixture: %w", err)
	}

	var flash *tui.Flash
	var announcer conversation.Announcer = conversation.NopAnnouncer{}
	if cfg.UI.Announce {
		flash = &tui.Flash{}
		announcer = flash
	}

	log := conversation.NewLog(announcer)
	ros := roster.NewEngine(cfg.Roster.PageSize)
	engine := workflow.New(log, ros, seed)

	app := tui.New(cfg, engine, log, ros, flash)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
