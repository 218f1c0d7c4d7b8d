package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/stekin/workspace"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report diagnostics for .stkn files and directories",
		Long: `Parse every given file, and every .stkn file below every given
directory, and print all diagnostics. Exits non-zero when there are any.
Checks the current directory when no path is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			var files []*workspace.File
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("check: %w", err)
				}
				if info.IsDir() {
					ws := workspace.New(arg)
					if err := ws.ScanAll(); err != nil {
						return err
					}
					files = append(files, ws.Files()...)
					continue
				}
				f, err := workspace.New(filepath.Dir(arg)).ScanFile(arg)
				if err != nil {
					return err
				}
				files = append(files, f)
			}

			count := 0
			for _, f := range files {
				for _, d := range f.Diagnostics {
					fmt.Fprintln(cmd.OutOrStdout(), d)
					count++
				}
			}
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d files, %d diagnostics\n", len(files), count)
			}
			if count > 0 {
				return fmt.Errorf("check failed: %d diagnostics", count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the summary line")

	return cmd
}
