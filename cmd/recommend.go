package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/desertthunder/catalogai/internal/formatter"
	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/tasks"
	"github.com/desertthunder/catalogai/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const cardWidth = 80

// Recommend runs one recommendation for the titles given as arguments and prints the report.
//
// Arguments are joined with commas, so `recommend Naruto "Your Name"` and `recommend "Naruto, Your Name"` are equivalent.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	titles := models.ParseTitles(strings.Join(cmd.Args().Slice(), ","))
	if err := titles.Validate(); err != nil {
		metrics.RecordRecommendation("cli", err)
		return &userError{msg: tasks.InvalidInputText, err: err}
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.prepare(ctx, cmd); err != nil {
		return err
	}

	result, err := r.run(ctx, titles, !cmd.Bool("no-spinner") && isTerminal(r.errOutput))
	metrics.RecordRecommendation("cli", err)
	if err != nil {
		r.logger.Debug("recommendation failed", "error", err)
		return &userError{msg: tasks.UserMessage(err, r.engine.Provider()), err: err}
	}

	report, blockErrs, err := formatter.NewReport(result)
	metrics.RecordMalformedBlocks(len(blockErrs))
	for _, be := range blockErrs {
		r.logger.Debug("dropped block", "error", be)
	}
	if err != nil {
		return &userError{msg: tasks.NoResultsText, err: err}
	}
	if report.Dropped > 0 {
		r.logger.Warn(tasks.DroppedBlocksNotice(report.Dropped))
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteReport(report, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("report saved", "path", written, "format", format)
		return r.writePlain("✓ %d recommendation(s) saved to %s\n", len(report.Recommendations), written)
	}

	if format == formatter.FormatText && isTerminal(r.output) {
		return r.writePlain("%s", ui.RenderCards(report, cardWidth))
	}

	data, err := formatter.Render(report, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// run calls the engine, animating a spinner on stderr while it waits.
func (r *Runner) run(ctx context.Context, titles models.Titles, animate bool) (*models.Result, error) {
	if !animate {
		return r.engine.Run(ctx, titles, nil)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.errOutput))
	s.Suffix = " " + tasks.SpinnerText
	s.Start()
	defer s.Stop()

	progress := make(chan tasks.ProgressUpdate, tasks.TotalSteps+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			s.Lock()
			s.Suffix = " " + update.Message
			s.Unlock()
		}
	}()

	result, err := r.engine.Run(ctx, titles, progress)
	close(progress)
	<-done
	return result, err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
