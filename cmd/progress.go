package cmd

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/tsiemens/fxreport/app"
)

const barWidth = 40

// progressBar renders run events on a terminal progress bar.
type progressBar struct {
	w       io.Writer
	bar     *progressbar.ProgressBar
	percent int
	rows    int
	drawn   bool
}

// newProgressBar draws on w, which must be shared (and synchronized) with
// anything else writing to the same terminal.
func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{
		w: w,
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(barWidth),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer: "#", SaucerPadding: ".", BarStart: "[", BarEnd: "]",
			}),
		),
	}
}

func (b *progressBar) describe(state app.State) {
	b.bar.Describe(fmt.Sprintf("%d rows (%s)", b.rows, state))
}

func (b *progressBar) Update(ev app.Event) {
	if ev.Kind == app.EventRow {
		b.rows++
	}
	b.drawn = true
	b.describe(ev.State)
	if ev.Percent > b.percent {
		b.percent = ev.Percent
		_ = b.bar.Set(b.percent)
	}
}

// Done ends the line. A successful run always shows as complete.
func (b *progressBar) Done(ok bool) {
	if !b.drawn {
		return
	}
	if ok {
		b.describe(app.Idle)
		_ = b.bar.Finish()
	}
	fmt.Fprintln(b.w)
}
