package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	paramform "github.com/goliatone/go-paramform"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/overrides"
	"github.com/goliatone/go-paramform/pkg/telemetry"
)

type options struct {
	declaration string
	openapi     string
	schema      string
	initFile    string
	envVar      string
	target      string
	button      bool
	next        int
	threshold   float64
	logLevel    string
	logFormat   string
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit string) error {
	return newRootCommand(version, commit).ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "paramform",
		Short: "Build parameter forms from declarations",
		Long: `paramform loads a parameter declaration (YAML/JSON, or an OpenAPI
component schema), applies initialization overrides and binds a form to it.
The form can be rendered as HTML or filled in from the terminal.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.declaration, "decl", "d", "", "declaration file (YAML or JSON)")
	flags.StringVar(&opts.openapi, "openapi", "", "OpenAPI document")
	flags.StringVar(&opts.schema, "schema", "", "component schema to map from the OpenAPI document")
	flags.StringVar(&opts.initFile, "init", "", "override file (JSON, YAML or TOML)")
	flags.StringVar(&opts.envVar, "env", overrides.DefaultVarName, "environment variable holding overrides")
	flags.StringVar(&opts.target, "target", "", "override section to apply (defaults to the type name)")
	flags.BoolVar(&opts.button, "button", false, "commit only when the run button is pressed")
	flags.IntVar(&opts.next, "next", 0, "steps to advance on commit (-1 for all)")
	flags.Float64Var(&opts.threshold, "threshold", 0, "hide fields below this precedence")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (console or json)")

	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))
	return rootCmd
}

func (o *options) logger(w io.Writer) (zerolog.Logger, error) {
	return telemetry.NewLogger(telemetry.LogConfig{
		Level:  o.logLevel,
		Format: o.logFormat,
		Writer: w,
	})
}

func (o *options) advance() form.Advance {
	if o.next < 0 {
		return form.AdvanceAll
	}
	return form.Advance(o.next)
}

func (o *options) request(logger zerolog.Logger, extra ...form.Option) paramform.Request {
	overrideOpts := []overrides.Option{overrides.WithVarName(o.envVar)}
	if o.initFile != "" {
		overrideOpts = append(overrideOpts, overrides.WithFile(o.initFile))
	}
	if o.target != "" {
		overrideOpts = append(overrideOpts, overrides.WithTarget(o.target))
	}

	formOpts := []form.Option{
		form.WithButton(o.button),
		form.WithNext(o.advance()),
		form.WithAdvancer(advanceLogger(logger)),
		form.WithDisplayThreshold(o.threshold),
	}
	return paramform.Request{
		Source: paramform.Source{
			Declaration: o.declaration,
			OpenAPI:     o.openapi,
			Component:   o.schema,
		},
		Overrides: overrideOpts,
		Form:      append(formOpts, extra...),
		Logger:    &logger,
	}
}

// advanceLogger reports advance requests. The CLI has no downstream steps,
// so the request is the observable effect of --next.
func advanceLogger(logger zerolog.Logger) form.Advancer {
	return form.AdvancerFunc(func(n form.Advance) {
		event := logger.Info()
		if n == form.AdvanceAll {
			event = event.Str("steps", "all")
		} else {
			event = event.Int("steps", int(n))
		}
		event.Msg("advance requested")
	})
}
