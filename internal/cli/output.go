package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/youruser/tradingcard/internal/util"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	headColor = color.New(color.FgCyan, color.Bold)
	dimColor  = color.New(color.Faint)
)

var errTerminal = errors.New("refusing to write binary output to a terminal, use --out")

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		w := cmd.OutOrStdout()
		if isTerminal(w) {
			return errTerminal
		}
		_, err := w.Write(data)
		return err
	}
	if err := util.WriteFile(path, data); err != nil {
		return err
	}
	okColor.Fprint(cmd.ErrOrStderr(), "wrote ")
	fmt.Fprintf(cmd.ErrOrStderr(), "%s (%d bytes)\n", path, len(data))
	return nil
}

// writeText writes s and a newline to path, or to stdout when path is empty
// or "-". Text is safe on a terminal.
func writeText(cmd *cobra.Command, path, s string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
		return err
	}
	return writeOutput(cmd, path, []byte(s+"\n"))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("an input file is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
