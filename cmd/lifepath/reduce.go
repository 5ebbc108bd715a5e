package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lifepath/pkg/export"
	"github.com/goliatone/go-lifepath/pkg/lifepath"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

// errNoPrediction is returned by reduce for dates without a life path.
var errNoPrediction = errors.New("no prediction")

type reduceFlags struct {
	name     string
	copy     bool
	download bool
}

func newReduceCmd(a *app) *cobra.Command {
	var flags reduceFlags
	cmd := &cobra.Command{
		Use:   "reduce <date>",
		Short: "Print the life path number and prediction for a date",
		Example: `  lifepath reduce 1999-12-31
  lifepath reduce "31/12/1999" --name Ada --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reduce(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "name shown before the prediction")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "copy the prediction to the clipboard")
	cmd.Flags().BoolVar(&flags.download, "download", false, "write prediction.txt to the download dir")
	cmd.Flags().String("download-dir", a.cfg.DownloadDir, "directory for --download")
	return cmd
}

func (a *app) reduce(cmd *cobra.Command, dob string, flags reduceFlags) error {
	provider, err := a.provider()
	if err != nil {
		return err
	}
	view, err := widget.Compute(widget.State{Name: flags.name, DOB: dob}, provider, nil)
	if err != nil {
		return err
	}
	if !view.Ready {
		return fmt.Errorf("%w: %w", errNoPrediction, lifepath.ErrInvalidDate)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Life path number: %d\n\n", view.LifePath)
	fmt.Fprintln(out, strings.TrimSpace(view.Greeting+" "+view.Message))

	if flags.copy {
		note, err := export.Copy(a.clipboard, view.Name, view.Message)
		if err != nil {
			a.logger.Debug("clipboard write failed", zap.Error(err))
		}
		fmt.Fprintln(cmd.ErrOrStderr(), note)
	}
	if flags.download {
		path, err := export.WriteFile(a.cfg.DownloadDir, view.Message)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Saved "+path)
	}
	return nil
}
