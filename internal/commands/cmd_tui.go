package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/toaster/internal/core/config"
	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/tui"
	"github.com/colonyops/toaster/pkg/profiler"
	"github.com/colonyops/toaster/pkg/utils"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("TOASTER_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive toaster (default)",
		UsageText: "toaster tui",
		Description: `Opens a terminal view of the toast queue. Keys raise the notifications the
job board sends, update, dismiss and remove them. Press ? for all keys.

Edits to tui.theme in the config file apply while the toaster is open.`,
		Action: cmd.Run,
	})
	return app
}

// heldLogLimit caps log output buffered while the board is on screen.
const heldLogLimit = 1 << 20

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("toaster tui needs an interactive terminal; use 'toaster demo' or 'toaster serve' instead")
	}

	cfg, err := cmd.flags.LoadedConfig()
	if err != nil {
		return err
	}

	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	// Stderr logs would draw over the screen; hold them until exit.
	if cmd.flags.LogFile == "" {
		held := &utils.DeferredWriter{Limit: heldLogLimit}
		prev := log.Logger
		log.Logger = log.Logger.Output(held)
		defer func() {
			log.Logger = prev
			_ = held.Flush(os.Stderr)
			if n := held.Dropped(); n > 0 {
				log.Warn().Int("bytes", n).Msg("older log output dropped while the board was open")
			}
		}()
	}

	store := toast.New(cfg.StoreOptions()...)
	defer store.Close()

	p := tea.NewProgram(tui.New(tui.Deps{Store: store}), tea.WithContext(ctx))

	if cmd.flags.ConfigPath != "" {
		w, err := config.Watch(cmd.flags.ConfigPath, config.DefaultDebounce, func(c *config.Config) {
			if palette, ok := styles.GetPalette(c.TUI.Theme); ok {
				p.Send(tui.ThemeChangedMsg{Name: c.TUI.Theme, Palette: palette})
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// startProfiler starts the pprof server when port is set and returns its
// shutdown func.
func startProfiler(ctx context.Context, port int) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	srv := profiler.New(port)
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", srv.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}
