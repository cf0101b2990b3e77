package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/pkg/render"
	"github.com/goliatone/go-kbadmin/pkg/renderers/tui"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List and render the admin forms",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List renderable form ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		con, err := buildConsole(client)
		if err != nil {
			return err
		}
		for _, id := range con.FormIDs() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var (
	renderWith  string
	renderOut   string
	renderPlain bool
)

var formsRenderCmd = &cobra.Command{
	Use:   "render <form-id>",
	Short: "Render a form through a registered renderer",
	Long: `Render a form definition. The html renderer emits the standalone form
markup; the tui renderer fills the form through terminal prompts and
emits the answers as JSON (or a text summary with --plain).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var extra []render.Renderer
		if renderWith == "tui" {
			if err := requireTerminal(); err != nil {
				return err
			}
			format := tui.OutputFormatJSON
			if renderPlain {
				format = tui.OutputFormatPrettyText
			}
			interactive, err := tui.New(tui.WithOutputFormat(format))
			if err != nil {
				return err
			}
			extra = append(extra, interactive)
		}

		client, err := apiClient()
		if err != nil {
			return err
		}
		con, err := buildConsole(client, extra...)
		if err != nil {
			return err
		}
		out, contentType, err := con.RenderForm(cmd.Context(), args[0], renderWith)
		if err != nil {
			return err
		}
		logger.Debug("form rendered",
			zap.String("form", args[0]),
			zap.String("content_type", contentType),
			zap.Int("bytes", len(out)))

		if renderOut != "" {
			if err := os.WriteFile(renderOut, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", renderOut, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", renderOut)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	formsRenderCmd.Flags().StringVarP(&renderWith, "renderer", "r", "", "Renderer name (default html)")
	formsRenderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write output to a file instead of stdout")
	formsRenderCmd.Flags().BoolVar(&renderPlain, "plain", false, "Emit a text summary instead of JSON (tui renderer)")

	formsCmd.AddCommand(formsListCmd)
	formsCmd.AddCommand(formsRenderCmd)
}
