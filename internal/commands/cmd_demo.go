package commands

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/jobboard"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/pkg/iojson"
	"github.com/colonyops/toaster/pkg/tmpl"
)

// expiryGrace is how long demo waits past the remove delay for the final
// empty snapshot.
const expiryGrace = 5 * time.Second

type DemoCmd struct {
	flags *Flags

	// flags
	removeDelay time.Duration
	pause       time.Duration
	format      string
}

// NewDemoCmd creates a new demo command
func NewDemoCmd(flags *Flags) *DemoCmd {
	return &DemoCmd{flags: flags}
}

// Register adds the demo command to the application
func (cmd *DemoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "demo",
		Usage:     "Replay a job-board session and print every snapshot",
		UsageText: "toaster demo [--remove-delay 1s] [--pause 0s] [--format TEMPLATE]",
		Description: `Runs a scripted job seeker session (resume upload, application, declined
payment, dismiss all) against a fresh store and prints each snapshot the store
broadcasts, ending with the empty snapshot after expiry.

By default each snapshot is printed as JSON. --format takes a Go template
executed against {Step, Toasts}, for example:

  toaster demo --format '{{.Step}}: {{range .Toasts}}{{.Title}} {{end}}'`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "remove-delay",
				Usage:       "delay between dismissal and removal",
				Value:       time.Second,
				Destination: &cmd.removeDelay,
			},
			&cli.DurationFlag{
				Name:        "pause",
				Usage:       "pause between scenario steps",
				Destination: &cmd.pause,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Go template for each snapshot (default JSON)",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

// DemoSnapshot is one line of demo output.
type DemoSnapshot struct {
	Step   string        `json:"step"`
	Toasts []toast.Toast `json:"toasts"`
}

func (cmd *DemoCmd) run(ctx context.Context, c *cli.Command) error {
	cfg, err := cmd.flags.LoadedConfig()
	if err != nil {
		return err
	}

	opts := append(cfg.StoreOptions(), toast.WithRemoveDelay(cmd.removeDelay))
	store := toast.New(opts...)
	defer store.Close()

	return runDemo(ctx, store, c.Root().Writer, c.Root().ErrWriter, demoOptions{
		format: cmd.format,
		pause:  cmd.pause,
		wait:   cmd.removeDelay + expiryGrace,
	})
}

type demoOptions struct {
	format string
	pause  time.Duration
	wait   time.Duration
}

func runDemo(ctx context.Context, store *toast.Store, w, ew io.Writer, opts demoOptions) error {
	var t *tmpl.Template
	if opts.format != "" {
		var err error
		t, err = tmpl.Parse(opts.format)
		if err != nil {
			return fmt.Errorf("invalid --format: %w", err)
		}
	}

	// Printing happens inside the listener, so output order is dispatch order.
	// Expiry removals are dispatched from timer goroutines.
	var (
		mu       sync.Mutex
		step     string
		printErr error
		emptied  = make(chan struct{}, 1)
	)
	setStep := func(s string) {
		mu.Lock()
		step = s
		mu.Unlock()
	}
	firstErr := func() error {
		mu.Lock()
		defer mu.Unlock()
		return printErr
	}

	unsubscribe := store.Subscribe(func(toasts []toast.Toast) {
		mu.Lock()
		snap := DemoSnapshot{Step: step, Toasts: toasts}
		if len(toasts) == 0 {
			snap.Step = jobboard.StepExpired
		}
		if err := printSnapshot(w, ew, t, snap); err != nil && printErr == nil {
			printErr = err
		}
		mu.Unlock()

		if len(toasts) == 0 {
			select {
			case emptied <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	jobboard.Scenario(store, func(s string) {
		setStep(s)
		if opts.pause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(opts.pause):
			}
		}
	})
	if err := firstErr(); err != nil {
		return err
	}

	select {
	case <-emptied:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(opts.wait):
		return fmt.Errorf("toasts not removed within %s", opts.wait)
	}
	return firstErr()
}

func printSnapshot(w, ew io.Writer, t *tmpl.Template, snap DemoSnapshot) error {
	if t == nil {
		return iojson.WriteWith(w, ew, snap)
	}

	out, err := t.Execute(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
