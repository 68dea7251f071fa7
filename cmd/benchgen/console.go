package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// consoleReporter renders upgrade narration to stdout. It owns the
// download progress bar so a step header never interleaves with a
// half-drawn bar.
type consoleReporter struct {
	bar progressBar
}

func (r *consoleReporter) Step(msg string) {
	r.bar.finish()
	fmt.Println(color.BlueString(" •"), msg)
}

func (r *consoleReporter) Detail(msg string) {
	r.bar.finish()
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(msg),
	)
}

func (r *consoleReporter) Warn(msg string) {
	r.bar.finish()
	color.Yellow(" ! %s", msg)
}

// progressBar adapts download progress callbacks onto a terminal
// progress bar. Nothing renders when stderr is not a terminal or the
// server did not announce a payload size.
type progressBar struct {
	bar      *pb.ProgressBar
	disabled bool
}

func (p *progressBar) update(downloaded, total int64) {
	if p.disabled {
		return
	}
	if p.bar == nil {
		if total <= 0 || !stderrIsTerminal() {
			p.disabled = true
			return
		}
		p.bar = pb.
			New64(total).
			SetTemplate(
				pb.ProgressBarTemplate(
					color.New(color.FgHiBlack).Sprint(
						`   └ {{counters . }} {{bar . "[" "=" ">" " " "]" }} {{percent . }} {{speed . }}`,
					),
				),
			).
			SetRefreshRate(time.Second / 60).
			SetMaxWidth(100).
			Start()
	}
	p.bar.SetCurrent(downloaded)
}

func (p *progressBar) finish() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar = nil
	p.disabled = true
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
