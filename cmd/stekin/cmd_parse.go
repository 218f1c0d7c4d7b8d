package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/stekin/format"
	"github.com/dhamidi/stekin/stekin/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var startLine int

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a .stkn file and dump the tree",
		Long: `Parse a stekin source file and dump the resulting tree.

Diagnostics go to stderr; the tree is printed even when there are some,
with unparsable parts shown as Bad. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, name, err := readSource(cmd, sourceArg(args))
			if err != nil {
				return err
			}

			block, diags := parser.ParseBytes(source, parser.WithFile(name), parser.WithStartLine(startLine))

			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := enc.Encode(block); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}

			if diags.HasErrors() {
				fmt.Fprint(cmd.ErrOrStderr(), diags.String())
			}
			return diags.Err()
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().IntVar(&startLine, "start-line", 1, "line number of the first line of input")

	return cmd
}
