package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/config"
	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "toaster config validate [options]",
				Description: "Validates the configuration file and reports every invalid field.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// ValidationIssue is one invalid config field.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating a config file.
type ValidationResult struct {
	Path   string            `json:"path"`
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	result := validateConfig(cmd.flags.ConfigPath)

	w := c.Root().Writer
	if cmd.format == "json" {
		if err := iojson.WriteWith(w, c.Root().ErrWriter, result); err != nil {
			return err
		}
	} else {
		writeValidationText(w, result)
	}

	if !result.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func validateConfig(path string) ValidationResult {
	result := ValidationResult{Path: path, Valid: true}

	cfg, err := config.Parse(path)
	if err == nil {
		err = cfg.ValidateFile(path)
	}
	if err == nil {
		return result
	}

	result.Valid = false

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.Issues = append(result.Issues, ValidationIssue{Field: fe.Field, Message: fe.Err.Error()})
		}
		return result
	}

	result.Issues = append(result.Issues, ValidationIssue{Field: "config_file", Message: err.Error()})
	return result
}

func writeValidationText(w io.Writer, result ValidationResult) {
	if result.Valid {
		_, _ = fmt.Fprintln(w, styles.SuccessStyle.Render("✔ configuration is valid: "+result.Path))
		return
	}

	for _, issue := range result.Issues {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.ErrorStyle.Render("✖ "+issue.Field+":"), issue.Message)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(result.Issues))))
}
