package main

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/renderers/tui"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// requireTerminal guards the interactive flows so a scripted invocation gets
// a clear error instead of a hung prompt.
func requireTerminal() error {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return nil
	}
	return errors.New("interactive input requires a terminal; pass the value flags instead")
}

// fillInteractive materializes an instance from the definition and walks it
// through terminal prompts. Ctrl-C comes back as a plain cancellation.
func fillInteractive(cmd *cobra.Command, def flowform.Definition, initial flowform.Values) (flowform.Instance, error) {
	if err := requireTerminal(); err != nil {
		return flowform.Instance{}, err
	}
	session, err := tui.NewSession()
	if err != nil {
		return flowform.Instance{}, err
	}
	inst := flowform.New(def, initial)
	filled, err := session.Fill(cmd.Context(), def, inst)
	if errors.Is(err, tui.ErrAborted) {
		return filled, errors.New("cancelled")
	}
	return filled, err
}
