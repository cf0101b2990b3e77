package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/forms"
	"github.com/goliatone/go-kbadmin/pkg/kb"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List, inspect and create knowledge-base workspaces",
}

var workspacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		summaries, err := client.ListWorkspaces(cmd.Context())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No workspaces.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDOCS\tCHUNKS\tREADY\tSOURCE\tUPDATED")
		for _, ws := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
				ws.ID, ws.Name, ws.DocumentCount, ws.ChunkCount,
				yesNo(ws.Ready), ws.Source, formatTime(ws.UpdatedAt))
		}
		return w.Flush()
	},
}

var workspacesShowCmd = &cobra.Command{
	Use:   "show <workspace-id>",
	Short: "Show one workspace and its documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		detail, err := client.Workspace(cmd.Context(), args[0])
		if err != nil {
			if kb.IsNotFound(err) {
				return fmt.Errorf("workspace %s not found", args[0])
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", detail.Name, detail.ID)
		if detail.Description != "" {
			fmt.Fprintln(out, detail.Description)
		}
		fmt.Fprintf(out, "source: %s  ready: %s  documents: %d  chunks: %d  updated: %s\n",
			detail.Source, yesNo(detail.Ready), detail.DocumentCount, detail.ChunkCount,
			formatTime(detail.UpdatedAt))

		if len(detail.Documents) == 0 {
			fmt.Fprintln(out, "\nNo documents.")
			return nil
		}
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DOCUMENT\tTITLE\tCHUNKS\tSIZE")
		for _, doc := range detail.Documents {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", doc.ID, doc.Title, doc.ChunkCount, formatSize(doc.SizeBytes))
		}
		return w.Flush()
	},
}

var (
	createName        string
	createDescription string
)

var workspacesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a workspace",
	Long: `Create a workspace. With --name the command runs non-interactively;
without it the workspace form is filled through terminal prompts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		name, description := strings.TrimSpace(createName), strings.TrimSpace(createDescription)
		if name == "" {
			inst, err := fillInteractive(cmd, forms.CreateWorkspace(), nil)
			if err != nil {
				return err
			}
			name = stringField(inst, forms.FieldName)
			description = stringField(inst, forms.FieldDescription)
		}

		created, err := client.CreateWorkspace(cmd.Context(), name, description)
		if err != nil {
			return err
		}
		logger.Debug("workspace created", zap.String("id", created.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

func stringField(inst flowform.Instance, id string) string {
	value, _ := inst.Value(id)
	return strings.TrimSpace(value.Text())
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func init() {
	workspacesCreateCmd.Flags().StringVar(&createName, "name", "", "Workspace name (skips the prompt)")
	workspacesCreateCmd.Flags().StringVar(&createDescription, "description", "", "Workspace description")

	workspacesCmd.AddCommand(workspacesListCmd)
	workspacesCmd.AddCommand(workspacesShowCmd)
	workspacesCmd.AddCommand(workspacesCreateCmd)
}
