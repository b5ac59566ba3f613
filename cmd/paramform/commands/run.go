package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	paramform "github.com/goliatone/go-paramform"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
	"github.com/goliatone/go-paramform/pkg/renderers/tui"
	"github.com/goliatone/go-paramform/pkg/renderers/values"
	"github.com/goliatone/go-paramform/pkg/telemetry"
)

func newRunCommand(opts *options) *cobra.Command {
	var (
		metricsOut string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in the form from the terminal and print the values",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			metrics := telemetry.NewMetrics("")
			callback := func(obj *param.Object) {
				logger.Info().Str("object", obj.Name()).Msg("committed")
			}
			req := opts.request(logger, form.WithCallback(callback), form.WithMetrics(metrics))

			f, err := paramform.Build(cmd.Context(), req)
			if err != nil {
				return err
			}
			defer f.Close()

			err = paramform.RunTerminal(cmd.Context(), f,
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
				tui.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			encoder, err := values.New(values.Format(format))
			if err != nil {
				return err
			}
			out, err := encoder.Render(cmd.Context(), f)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			if metricsOut != "" {
				if err := prometheus.WriteToTextfile(metricsOut, metrics.Registry()); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "format of the printed values (yaml or json)")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write prometheus counters to this file after the run")
	return cmd
}
