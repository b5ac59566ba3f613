package commands

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	paramform "github.com/goliatone/go-paramform"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/html"
	"github.com/goliatone/go-paramform/pkg/renderers/values"
)

func newRenderCommand(opts *options) *cobra.Command {
	var (
		output    string
		format    string
		themeName string
		variant   string
		templates string
	)

	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"html"},
		Short:   "Render the form as an HTML snapshot or dump its values",
		Example: `  paramform render --decl render.yaml --init overrides.toml
  paramform html --openapi api.yaml --schema Render -o form.html
  paramform render --decl render.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			f, err := paramform.Build(cmd.Context(), opts.request(logger))
			if err != nil {
				return err
			}
			defer f.Close()

			htmlOpts := []html.Option{html.WithTemplatesDir(templates)}
			if themeName != "" || variant != "" {
				htmlOpts = append(htmlOpts, html.WithTheme(&theme.RendererConfig{
					Theme:   themeName,
					Variant: variant,
				}))
			}
			registry, err := renderers(htmlOpts...)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(format)
			if err != nil {
				return err
			}
			out, err := renderer.Render(cmd.Context(), f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info().Str("path", output).Msg("form written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format (html, yaml or json)")
	cmd.Flags().StringVar(&themeName, "theme", "", "theme name added to the form element")
	cmd.Flags().StringVar(&variant, "variant", "", "theme variant")
	cmd.Flags().StringVar(&templates, "templates", "", "directory overriding the built-in templates")
	return cmd
}

func renderers(htmlOpts ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(htmlOpts...)
	if err != nil {
		return nil, err
	}
	yamlRenderer, err := values.New(values.FormatYAML)
	if err != nil {
		return nil, err
	}
	jsonRenderer, err := values.New(values.FormatJSON)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, yamlRenderer, jsonRenderer)
}
