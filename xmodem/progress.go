package xmodem

import (
	"fmt"
	"io"
)

const spinner = `|/-\`

// Percent returns sent as a whole percentage of total, rounded to nearest.
// An empty file counts as complete.
func Percent(sent, total int64) int64 {
	if total <= 0 {
		return 100
	}
	return (sent*100 + total/2) / total
}

// SpinnerGlyph returns the spinner frame shown after the given packet count.
func SpinnerGlyph(packets int) byte {
	return spinner[(packets/ProgressEvery)%len(spinner)]
}

// ProgressPrinter returns an OnProgress callback that redraws a spinner and
// percentage on a single line of w.
func ProgressPrinter(w io.Writer) func(filename string, sent, total int64, packets int) {
	return func(filename string, sent, total int64, packets int) {
		fmt.Fprintf(w, "\r%c %3d%%", SpinnerGlyph(packets), Percent(sent, total))
	}
}

// FormatSummary renders the one-line result of a finished transfer.
func FormatSummary(summary *Summary) string {
	plural := "s"
	if summary.Packets == 1 {
		plural = ""
	}
	return fmt.Sprintf("%d packet%s transferred", summary.Packets, plural)
}
