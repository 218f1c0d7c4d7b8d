package main

import (
	"fmt"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/ebnflex"
	"github.com/dhamidi/stekin/stekin/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var useGrammar bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a .stkn file",
		Long: `Print the tokens of a stekin source file, one per line.

By default the lexer used by the parser runs and each line is prefixed with
its indentation. With --grammar the tokens come from the EBNF lexical grammar
instead, which is useful to cross-check the two.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, name, err := readSource(cmd, sourceArg(args))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if useGrammar {
				lx, err := ebnflex.NewStekinLexer(source, name)
				if err != nil {
					return err
				}
				tokens, err := lx.Tokenize()
				if err != nil {
					return fmt.Errorf("tokenize: %w", err)
				}
				for _, tok := range tokens {
					fmt.Fprintln(out, tok)
				}
				return nil
			}

			diags := diag.NewList()
			lx := parser.NewLexer(source, name, diags)
			for {
				line, ok := lx.NextLine()
				if !ok {
					break
				}
				fmt.Fprintf(out, "%s indent=%d\n", line.Pos, line.Indent)
				for _, tok := range line.Tokens {
					fmt.Fprintf(out, "  %s\n", tok)
				}
			}
			if diags.HasErrors() {
				fmt.Fprint(cmd.ErrOrStderr(), diags.String())
			}
			return diags.Err()
		},
	}

	cmd.Flags().BoolVar(&useGrammar, "grammar", false, "tokenize with the EBNF lexical grammar")

	return cmd
}
