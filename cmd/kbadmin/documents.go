package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-kbadmin/pkg/kb"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Inspect ingested documents",
}

var documentChunks int

var documentsShowCmd = &cobra.Command{
	Use:   "show <workspace-id> <document-id>",
	Short: "Show a document and preview its chunks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		detail, err := client.Document(cmd.Context(), args[0], args[1])
		if err != nil {
			if kb.IsNotFound(err) {
				return fmt.Errorf("document %s not found in workspace %s", args[1], args[0])
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", detail.Title, detail.ID)
		if detail.OriginalFilename != "" {
			fmt.Fprintf(out, "file: %s\n", detail.OriginalFilename)
		}
		fmt.Fprintf(out, "chunks: %d  size: %s  downloadable: %s\n",
			detail.ChunkCount, formatSize(detail.SizeBytes), yesNo(detail.FileAvailable))
		if detail.MediaType != "" {
			fmt.Fprintf(out, "media type: %s\n", detail.MediaType)
		}

		shown := detail.Chunks
		if documentChunks >= 0 && len(shown) > documentChunks {
			shown = shown[:documentChunks]
		}
		for i, chunk := range shown {
			fmt.Fprintf(out, "\n--- chunk %d/%d (%s)\n", i+1, detail.ChunkCount, chunk.ID)
			fmt.Fprintln(out, strings.TrimRight(chunk.Content, "\n"))
		}
		if remaining := len(detail.Chunks) - len(shown); remaining > 0 {
			fmt.Fprintf(out, "\n(%d more chunks, raise --chunks to see them)\n", remaining)
		}
		return nil
	},
}

func init() {
	documentsShowCmd.Flags().IntVar(&documentChunks, "chunks", 3, "Number of chunk previews to print (-1 for all)")

	documentsCmd.AddCommand(documentsShowCmd)
}
