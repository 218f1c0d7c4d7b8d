package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dhamidi/stekin/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-check .stkn files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			ws := workspace.New(dir)
			if err := ws.ScanAll(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range ws.Files() {
				report(out, f.Path, f)
			}

			watcher, err := workspace.NewWatcher(ws)
			if err != nil {
				return err
			}
			defer watcher.Close()
			watcher.OnChange = func(path string, f *workspace.File) {
				report(out, path, f)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", dir)
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}
}

func report(out io.Writer, path string, f *workspace.File) {
	switch {
	case f == nil:
		fmt.Fprintf(out, "%s: removed\n", path)
	case !f.HasErrors():
		fmt.Fprintf(out, "%s: ok\n", path)
	default:
		for _, d := range f.Diagnostics {
			fmt.Fprintln(out, d)
		}
	}
}
