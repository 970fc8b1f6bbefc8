package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the smolbox banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"                       _ _               ", "#34d399"},
		{"  ___ _ __ ___   ___ | | |__   _____  __", "#2dd4bf"},
		{" / __| '_ ` _ \\ / _ \\| | '_ \\ / _ \\ \\/ /", "#22d3ee"},
		{" \\__ \\ | | | | | (_) | | |_) | (_) >  < ", "#38bdf8"},
		{" |___/_| |_| |_|\\___/|_|_.__/ \\___/_/\\_\\", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Warn writes a yellow warning line to w.
func Warn(w io.Writer, msg string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w, termenv.String("warning: "+msg).Foreground(p.Color("#facc15")))
}

// Success writes a green confirmation line to w.
func Success(w io.Writer, msg string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w, termenv.String(msg).Foreground(p.Color("#4ade80")))
}
