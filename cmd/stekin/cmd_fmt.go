package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/stekin/format"
	"github.com/dhamidi/stekin/stekin/parser"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a .stkn file",
		Long: `Pretty-print a stekin source file to stdout.

Nested operations are parenthesized and bodies are indented by four spaces.
Comments are not kept. Files with diagnostics are not formatted.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fmtOverwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}
			source, name, err := readSource(cmd, sourceArg(args))
			if err != nil {
				return err
			}

			block, diags := parser.ParseBytes(source, parser.WithFile(name))
			if diags.HasErrors() {
				fmt.Fprint(cmd.ErrOrStderr(), diags.String())
				return fmt.Errorf("format %s: %w", name, diags.Err())
			}

			output := format.Print(block)
			if fmtOverwrite {
				return os.WriteFile(name, output, 0644)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
