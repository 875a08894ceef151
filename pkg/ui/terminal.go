// Package ui renders command output for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Printer writes colored status lines. Errors are printed even in quiet mode.
type Printer struct {
	out   io.Writer
	quiet bool
	mu    sync.Mutex

	red     *color.Color
	green   *color.Color
	yellow  *color.Color
	cyan    *color.Color
	magenta *color.Color
	dim     *color.Color
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:     out,
		red:     color.New(color.FgRed),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		cyan:    color.New(color.FgCyan),
		magenta: color.New(color.FgMagenta, color.Bold),
		dim:     color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.red, p.green, p.yellow, p.cyan, p.magenta, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// Stdout returns a printer for os.Stdout
func Stdout(noColor bool) *Printer {
	return NewPrinter(os.Stdout, noColor)
}

func (p *Printer) SetQuiet(quiet bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quiet = quiet
}

func (p *Printer) print(c *color.Color, always bool, line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet && !always {
		return
	}
	c.Fprintln(p.out, line)
}

// Error prints msg and an optional detail in red
func (p *Printer) Error(msg string, args ...interface{}) {
	p.print(p.red, true, withDetail(msg, args))
}

func (p *Printer) Warning(msg string, args ...interface{}) {
	p.print(p.yellow, false, withDetail(msg, args))
}

func (p *Printer) Success(msg string) {
	p.print(p.green, false, msg)
}

func (p *Printer) Highlight(msg string) {
	p.print(p.magenta, false, msg)
}

// Info prints a label: value pair
func (p *Printer) Info(label, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", p.cyan.Sprint(label), p.yellow.Sprint(value))
}

// Item prints one entry of a listing. Items are data, so quiet mode keeps them.
func (p *Printer) Item(columns ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(columns) == 0 {
		return
	}
	rest := ""
	if len(columns) > 1 {
		rest = "  " + p.dim.Sprint(strings.Join(columns[1:], "  "))
	}
	fmt.Fprintf(p.out, "%s%s\n", columns[0], rest)
}

func withDetail(msg string, args []interface{}) string {
	if len(args) > 0 && fmt.Sprint(args[0]) != "" {
		return msg + ": " + fmt.Sprint(args[0])
	}
	return msg
}
