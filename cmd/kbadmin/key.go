package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-kbadmin/pkg/forms"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored image-captioning API key",
	Long: `The captioning key is kept in a local keystore file and attached to file
ingestions so the service can caption image uploads. It is never sent
anywhere else and never printed.`,
}

var keyFromStdin bool

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the captioning key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := keyStore()
		if err != nil {
			return err
		}

		if keyFromStdin {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			key := strings.TrimSpace(string(data))
			if key == "" {
				return errors.New("no key on stdin")
			}
			if err := store.Set(key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Captioning key stored.")
			return nil
		}

		initial, err := forms.SettingsInitial(store)
		if err != nil {
			return err
		}
		inst, err := fillInteractive(cmd, forms.Settings(), initial)
		if err != nil {
			return err
		}
		key := stringField(inst, forms.FieldAPIKey)
		if key == "" {
			return errors.New("no key entered")
		}
		if err := store.Set(key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Captioning key stored.")
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored captioning key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := keyStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Captioning key cleared.")
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Report whether a captioning key is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := keyStore()
		if err != nil {
			return err
		}
		key, err := store.Get()
		if err != nil {
			return err
		}
		if key == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No captioning key stored.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "A captioning key is stored (%d characters).\n", len(key))
		return nil
	},
}

func init() {
	keySetCmd.Flags().BoolVar(&keyFromStdin, "stdin", false, "Read the key from stdin instead of prompting")

	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyShowCmd)
}
