package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/pkg/iojson"
)

type NotifyCmd struct {
	flags  *Flags
	reader iojson.FileReader[toast.Payload]

	// flags
	server      string
	title       string
	description string
	variant     string
	timeout     time.Duration
}

// NewNotifyCmd creates a new notify command
func NewNotifyCmd(flags *Flags) *NotifyCmd {
	return &NotifyCmd{flags: flags}
}

// Register adds the notify command to the application
func (cmd *NotifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notify",
		Usage:     "Send a toast to a running 'toaster serve'",
		UsageText: "toaster notify [--title T] [--description D] [--variant destructive] | [-f payload.json]",
		Description: `Posts a toast to the server and prints the created id.

With --title the payload is built from flags. Otherwise a JSON payload is read
from --file or stdin, for example:

  echo '{"title":"Job posted","variant":"default"}' | toaster notify`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "server base URL",
				Sources:     cli.EnvVars("TOASTER_SERVER"),
				Value:       "http://localhost:8080",
				Destination: &cmd.server,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "toast title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Usage:       "toast description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "variant",
				Usage:       "toast variant (default, destructive)",
				Destination: &cmd.variant,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "request timeout",
				Value:       10 * time.Second,
				Destination: &cmd.timeout,
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NotifyCmd) run(ctx context.Context, c *cli.Command) error {
	p, err := cmd.payload()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.timeout)
	defer cancel()

	id, err := postToast(ctx, http.DefaultClient, cmd.server, p)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.Root().Writer, id)
	return err
}

func (cmd *NotifyCmd) payload() (toast.Payload, error) {
	if cmd.title == "" {
		return cmd.reader.Read()
	}

	p := toast.Payload{
		Title:       cmd.title,
		Description: cmd.description,
		Variant:     toast.Variant(cmd.variant),
	}
	switch p.Variant {
	case "", toast.VariantDefault, toast.VariantDestructive:
	default:
		return p, fmt.Errorf("unknown variant %q", cmd.variant)
	}
	return p, nil
}

// postToast creates a toast on the server at base and returns its id.
func postToast(ctx context.Context, client *http.Client, base string, p toast.Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	url := strings.TrimRight(base, "/") + "/toasts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// chi's RequestID middleware adopts this id, so server logs for the
	// request can be found from the client side.
	reqID := uuid.NewString()
	req.Header.Set(middleware.RequestIDHeader, reqID)
	log.Debug().Str("request_id", reqID).Str("url", url).Msg("posting toast")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post toast: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var e iojson.Error
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Message)
		}
		return "", fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.ID, nil
}
