package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	formschema "github.com/goliatone/go-formschema"
	"github.com/goliatone/go-formschema/pkg/prompt"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// App carries the dependencies shared by every subcommand.
type App struct {
	cfg    Config
	out    io.Writer
	errOut io.Writer
	driver prompt.PromptDriver
	log    *logrus.Logger
}

// Command builds the cobra command tree.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "formschema",
		Short:         "Convert, check and fill flat JSON Schema forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.cfg, a.errOut)
			if err != nil {
				return err
			}
			a.log = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format (text, json)")
	flags.BoolVar(&a.cfg.AllowHTTP, "allow-http", a.cfg.AllowHTTP, "allow loading documents from http(s) URLs")
	flags.DurationVar(&a.cfg.RequestTimeout, "timeout", a.cfg.RequestTimeout, "timeout for remote documents")
	flags.BoolVar(&a.cfg.OmitEmptyOptional, "omit-empty-optional", a.cfg.OmitEmptyOptional, "treat empty optional non-string values as not provided")

	root.AddCommand(
		a.modelCommand(),
		a.schemaCommand(),
		a.checkCommand(),
		a.coerceCommand(),
		a.fillCommand(),
	)
	return root
}

func (a *App) modelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "model <schema>",
		Short: "Print the ordered property model of a stored JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceArg(args[0])
			if err != nil {
				return err
			}
			m, err := formschema.LoadModel(cmd.Context(), src, a.cfg.loaderOptions()...)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"source": src.Location(), "properties": len(m.Properties)}).Debug("model loaded")
			return a.writeJSON(m)
		},
	}
}

func (a *App) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <model>",
		Short: "Serialize an editor model (JSON or YAML) to JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceArg(args[0])
			if err != nil {
				return err
			}
			m, err := formschema.LoadEditorModel(cmd.Context(), src, a.cfg.loaderOptions()...)
			if err != nil {
				return err
			}
			raw, err := formschema.SaveSchema(m)
			if err != nil {
				return err
			}
			a.log.WithField("properties", len(m.Properties)).Debug("schema generated")
			_, err = fmt.Fprintln(a.out, string(raw))
			return err
		},
	}
}

func (a *App) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema>",
		Short: "Report every reason a stored schema cannot be edited as a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceArg(args[0])
			if err != nil {
				return err
			}
			doc, err := formschema.NewLoader(a.cfg.loaderOptions()...).Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			result := validation.ValidateJSONSchema(cmd.Context(), doc.JSON())
			if err := a.writeJSON(result); err != nil {
				return err
			}
			if !result.Valid {
				a.log.WithFields(logrus.Fields{"source": src.Location(), "issues": len(result.Issues)}).Warn("schema is not editable")
				return result.Err()
			}
			return nil
		},
	}
}

func (a *App) coerceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "coerce <schema> [id=value ...]",
		Short: "Convert string values into typed JSON using a stored schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceArg(args[0])
			if err != nil {
				return err
			}
			raw, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			m, err := formschema.LoadModel(cmd.Context(), src, a.cfg.loaderOptions()...)
			if err != nil {
				return err
			}
			typed, err := formschema.SubmitInput(cmd.Context(), m, raw, a.cfg.coerceOptions()...)
			if err != nil {
				a.log.WithField("source", src.Location()).Debug("input rejected")
				return err
			}
			return a.writeJSON(typed)
		},
	}
}

func (a *App) fillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fill <schema>",
		Short: "Prompt for each property of a stored schema and print typed JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceArg(args[0])
			if err != nil {
				return err
			}
			m, err := formschema.LoadModel(cmd.Context(), src, a.cfg.loaderOptions()...)
			if err != nil {
				return err
			}
			collector := prompt.NewCollector(prompt.WithPromptDriver(a.driver))
			raw, err := collector.Collect(cmd.Context(), m)
			if err != nil {
				return err
			}
			typed, err := formschema.SubmitInput(cmd.Context(), m, raw, a.cfg.coerceOptions()...)
			if err != nil {
				return err
			}
			a.log.WithField("values", len(typed)).Info("form filled")
			return a.writeJSON(typed)
		},
	}
}

func (a *App) writeJSON(value any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func sourceArg(raw string) (schema.Source, error) {
	src := schema.ParseSource(raw)
	if src == nil {
		return nil, fmt.Errorf("invalid source: %q", raw)
	}
	return src, nil
}

// parseAssignments splits id=value arguments. Values may be empty or contain
// further '=' characters.
func parseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected id=value", arg)
		}
		if _, dup := out[id]; dup {
			return nil, errors.New("duplicate assignment for " + id)
		}
		out[id] = value
	}
	return out, nil
}
