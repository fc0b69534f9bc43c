package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/ingest"
	"github.com/colonyops/toaster/internal/metrics"
	"github.com/colonyops/toaster/internal/server"
)

type ServeCmd struct {
	flags *Flags

	// flags
	addr         string
	kafkaBrokers []string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the toast queue over HTTP",
		UsageText: "toaster [--profiler-port N] serve [--addr host:port]",
		Description: `Starts the HTTP control surface:

  GET    /toasts               current snapshot
  POST   /toasts               create a toast
  PATCH  /toasts/{id}          update a toast
  POST   /toasts/{id}/dismiss  dismiss one toast
  POST   /toasts/dismiss       dismiss all toasts
  DELETE /toasts/{id}          remove one toast
  DELETE /toasts               remove all toasts
  GET    /toasts/stream        websocket snapshot stream
  GET    /healthz, /metrics

With kafka.brokers set, commands published to kafka.topic are applied to the
same store, e.g. {"type":"notify","payload":{"title":"Job posted"}}.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Sources:     cli.EnvVars("TOASTER_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringSliceFlag{
				Name:        "kafka-brokers",
				Usage:       "consume toast commands from Kafka (overrides kafka.brokers)",
				Sources:     cli.EnvVars("TOASTER_KAFKA_BROKERS"),
				Destination: &cmd.kafkaBrokers,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg, err := cmd.flags.LoadedConfig()
	if err != nil {
		return err
	}

	serverCfg := cfg.Server
	if cmd.addr != "" {
		serverCfg.Addr = cmd.addr
	}
	kafkaCfg := cfg.Kafka
	if len(cmd.kafkaBrokers) > 0 {
		kafkaCfg.Brokers = cmd.kafkaBrokers
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	m := metrics.New()
	store := toast.New(append(cfg.StoreOptions(), toast.WithHooks(m.Hooks()))...)
	defer store.Close()
	m.ObserveStore(store)

	srv := server.New(server.Deps{
		Store:   store,
		Metrics: m,
		Config:  serverCfg,
	})

	log.Info().
		Int("limit", store.Limit()).
		Dur("remove_delay", cfg.Toasts.RemoveDelay).
		Msg("toast store ready")

	if kafkaCfg.Enabled() {
		group, err := ingest.Dial(kafkaCfg)
		if err != nil {
			return err
		}
		consumer := ingest.NewConsumer(kafkaCfg.Topic, group, store)

		consumerCtx, stopConsumer := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := consumer.Start(consumerCtx); err != nil {
				log.Error().Err(err).Msg("kafka consumer exited")
			}
		}()
		// stop before the store closes
		defer func() {
			stopConsumer()
			<-done
		}()
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
