package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-lifepath/pkg/renderers/tui"
)

func newPredictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Fill in the prediction form interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := a.provider()
			if err != nil {
				return err
			}
			r, err := tui.New(
				tui.WithDescriber(provider),
				tui.WithClipboard(a.clipboard),
				tui.WithDownloadDir(a.cfg.DownloadDir),
			)
			if err != nil {
				return err
			}

			if _, err := r.Run(cmd.Context()); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
					return nil
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("download-dir", a.cfg.DownloadDir, "directory the Download action writes prediction.txt to")
	return cmd
}
