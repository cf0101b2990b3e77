package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/forms"
	"github.com/goliatone/go-kbadmin/pkg/kb"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add pasted text or files to a workspace",
}

var (
	ingestTitle       string
	ingestContentPath string
	ingestChunkSize   int
	ingestChunkLap    int
	ingestDefaults    bool
)

var ingestTextCmd = &cobra.Command{
	Use:   "text <workspace-id>",
	Short: "Ingest pasted text",
	Long: `Ingest a block of text into a workspace. With --title and --content the
command runs non-interactively; without them the ingest form is filled
through terminal prompts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		var ingestion kb.TextIngestion
		if ingestTitle != "" || ingestContentPath != "" {
			if ingestTitle == "" {
				return errors.New("--title is required with --content")
			}
			if ingestContentPath == "" {
				return errors.New("--content is required with --title")
			}
			content, err := readContent(cmd.InOrStdin(), ingestContentPath)
			if err != nil {
				return err
			}
			ingestion = kb.TextIngestion{
				Title:        ingestTitle,
				Content:      content,
				ChunkSize:    ingestChunkSize,
				ChunkOverlap: ingestChunkLap,
			}
		} else {
			inst, err := fillInteractive(cmd, forms.IngestText(), nil)
			if err != nil {
				return err
			}
			ingestion = kb.TextIngestion{
				Title:        stringField(inst, forms.FieldTitle),
				Content:      stringField(inst, forms.FieldContent),
				ChunkSize:    intField(inst, forms.FieldChunkSize, forms.DefaultChunkSize),
				ChunkOverlap: intField(inst, forms.FieldChunkOverlap, forms.DefaultChunkOverlap),
			}
		}

		if err := client.IngestText(cmd.Context(), args[0], ingestion); err != nil {
			return err
		}
		logger.Debug("text ingested",
			zap.String("workspace", args[0]),
			zap.Int("content_bytes", len(ingestion.Content)))
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %q into workspace %s\n", ingestion.Title, args[0])
		return nil
	},
}

var ingestFileCmd = &cobra.Command{
	Use:   "file <workspace-id> <path>",
	Short: "Ingest a file upload",
	Long: `Upload a file for ingestion. On a terminal the chunking form is filled
through prompts, seeded with the stored captioning key; --defaults or any
chunking flag skips the prompts.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		store, err := keyStore()
		if err != nil {
			return err
		}

		ingestion := kb.FileIngestion{
			ChunkSize:    ingestChunkSize,
			ChunkOverlap: ingestChunkLap,
		}
		flagged := cmd.Flags().Changed("chunk-size") || cmd.Flags().Changed("chunk-overlap")
		if !ingestDefaults && !flagged && requireTerminal() == nil {
			initial, err := forms.IngestFileInitial(store)
			if err != nil {
				return err
			}
			inst, err := fillInteractive(cmd, forms.IngestFile(), initial)
			if err != nil {
				return err
			}
			ingestion.ChunkSize = intField(inst, forms.FieldChunkSize, forms.DefaultChunkSize)
			ingestion.ChunkOverlap = intField(inst, forms.FieldChunkOverlap, forms.DefaultChunkOverlap)
			ingestion.APIKey = stringField(inst, forms.FieldAPIKey)
		} else {
			key, err := store.Get()
			if err != nil {
				return err
			}
			ingestion.APIKey = key
		}

		path := args[1]
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()

		if err := client.IngestFile(cmd.Context(), args[0], filepath.Base(path), file, ingestion); err != nil {
			return err
		}
		logger.Debug("file ingested",
			zap.String("workspace", args[0]),
			zap.String("file", filepath.Base(path)))
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s into workspace %s\n", filepath.Base(path), args[0])
		return nil
	},
}

// readContent reads the text body from a file path, or stdin for "-".
func readContent(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func intField(inst flowform.Instance, id string, fallback int) int {
	value, ok := inst.Value(id)
	if !ok || value.Kind() != flowform.ValueNumber {
		return fallback
	}
	return int(value.Number())
}

func init() {
	ingestTextCmd.Flags().StringVar(&ingestTitle, "title", "", "Document title (skips the prompts)")
	ingestTextCmd.Flags().StringVar(&ingestContentPath, "content", "", "Path to the text body, - for stdin")

	for _, cmd := range []*cobra.Command{ingestTextCmd, ingestFileCmd} {
		cmd.Flags().IntVar(&ingestChunkSize, "chunk-size", forms.DefaultChunkSize, "Chunk size in characters")
		cmd.Flags().IntVar(&ingestChunkLap, "chunk-overlap", forms.DefaultChunkOverlap, "Chunk overlap in characters")
	}
	ingestFileCmd.Flags().BoolVar(&ingestDefaults, "defaults", false, "Skip the prompts and use defaults")

	ingestCmd.AddCommand(ingestTextCmd)
	ingestCmd.AddCommand(ingestFileCmd)
}
