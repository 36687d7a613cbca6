package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/config"
	"github.com/h0rv/shuhan/internal/logging"
	"github.com/h0rv/shuhan/internal/simulator"
	"github.com/h0rv/shuhan/internal/tui"
)

// app is the state shared by every command after initConfig ran.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *log.Logger
	catalog *chamber.Catalog
}

var (
	cfgFile   string
	stateFlag string
	pickFlag  bool
)

func main() {
	a := &app{v: config.New()}
	rootCmd := newRootCmd(a)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shuhan",
		Short: "Prime minister nomination simulator",
		Long: `shuhan is an interactive seat chart for the Japanese Diet.

Move parties between the ruling group, the opposition and the rest to see
which coalition reaches a majority. The ruling and opposition columns trade
places when the opposition holds more seats.

Commands:
  shuhan            interactive terminal chart
  shuhan serve      web chart with share links
  shuhan render     write the chart as SVG
  shuhan encode     print the query-string state`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runTUI,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/shuhan/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("chamber", "house", "chamber to display (house, councillors)")
	flags.String("data", "", "TOML seat data file (default: embedded data)")
	flags.StringVarP(&stateFlag, "state", "g", "", "encoded assignment, as in the ?g= query parameter")

	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyChamber, flags.Lookup("chamber"))
	_ = a.v.BindPFlag(config.KeyDataFile, flags.Lookup("data"))

	rootCmd.Flags().BoolVar(&pickFlag, "pick", false, "choose the chamber from a list")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newEncodeCmd(a))
	return rootCmd
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if err := config.ReadFile(a.v, cfgFile); err != nil {
		return err
	}
	a.cfg = config.FromViper(a.v)

	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logging.New(os.Stderr, level)

	a.catalog, err = loadCatalog(a.cfg.DataFile)
	if err != nil {
		return fmt.Errorf("failed to load seat data: %w", err)
	}
	a.logger.Debug("config loaded", "file", a.v.ConfigFileUsed(), "data", a.cfg.DataFile)
	return nil
}

func loadCatalog(path string) (*chamber.Catalog, error) {
	if path == "" {
		return chamber.Default()
	}
	return chamber.LoadFile(path)
}

func (a *app) session() *simulator.Session {
	return simulator.FromQuery(a.catalog, stateFlag, a.logger)
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	chamberID := a.cfg.Chamber
	if pickFlag {
		chamberID = ""
	}

	// Log to a file while the terminal is taken over by the UI
	if a.logger.GetLevel() <= log.DebugLevel {
		f, err := tea.LogToFile("shuhan-debug.log", "")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
		a.logger.SetOutput(f)
	} else {
		a.logger.SetOutput(io.Discard)
	}

	model := tui.NewAppModel(a.session(), chamberID, a.cfg.SiteURL, a.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
