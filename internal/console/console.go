// Package console is a headless host for running events from the command
// line. Presentation and audio requests are written as lines of text and
// host states are resolved without user interaction.
package console

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"eventide/internal/scripting/types"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiCyan  = "\x1b[36m"
	ansiGreen = "\x1b[32m"
)

// Console implements types.Presenter, types.Audio and types.Host
type Console struct {
	out   io.Writer
	color bool

	// a blocking request keeps the presenter busy for one tick
	showing bool
	pending []types.Handoff
}

var (
	_ types.Presenter = (*Console)(nil)
	_ types.Audio     = (*Console)(nil)
	_ types.Host      = (*Console)(nil)
)

// New creates a console writing to out. Styling is enabled when out is a terminal.
func New(out io.Writer) *Console {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{out: out, color: color}
}

func (c *Console) style(code, s string) string {
	if !c.color {
		return s
	}
	return code + s + ansiReset
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) Present(r types.Request) {
	switch r.Kind {
	case types.PresentSpeak:
		speaker := r.Args["speaker"]
		if speaker == "" {
			c.printf("  %s", r.Args["text"])
		} else {
			c.printf("%s: %s", c.style(ansiBold, speaker), r.Args["text"])
		}
	case types.PresentAlert, types.PresentLocationCard:
		c.printf("%s", c.style(ansiCyan, "[ "+r.Args["text"]+" ]"))
	default:
		c.printf("%s", c.style(ansiDim, "<"+r.Kind+describe(r.Args, r.Flags)+">"))
	}
	if r.Blocking {
		c.showing = true
	}
}

// describe renders args in key order so output is stable
func describe(args map[string]string, flags []string) string {
	if len(args) == 0 && len(flags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+len(flags))
	for _, k := range keys {
		parts = append(parts, k+"="+args[k])
	}
	parts = append(parts, flags...)
	return " " + strings.Join(parts, " ")
}

// Busy reports the box shown by the last blocking request, then clears it
func (c *Console) Busy() bool {
	busy := c.showing
	c.showing = false
	return busy
}

func (c *Console) Hurry() {
	c.showing = false
}

func (c *Console) PlayMusic(nid string, fadeIn time.Duration) {
	c.printf("%s", c.style(ansiGreen, fmt.Sprintf("♪ %s (fade %s)", nid, fadeIn)))
}

func (c *Console) StopMusic(fadeOut time.Duration) {
	c.printf("%s", c.style(ansiGreen, fmt.Sprintf("♪ stop (fade %s)", fadeOut)))
}

func (c *Console) PlaySound(nid string, volume float64) {
	c.printf("%s", c.style(ansiGreen, fmt.Sprintf("♫ %s %.0f%%", nid, volume*100)))
}

func (c *Console) PushState(h types.Handoff) {
	c.printf("%s", c.style(ansiDim, "=> "+h.State+describe(h.Args, nil)))
	c.pending = append(c.pending, h)
}

// PopPending returns the oldest host state requested and not yet resolved
func (c *Console) PopPending() (types.Handoff, bool) {
	if len(c.pending) == 0 {
		return types.Handoff{}, false
	}
	h := c.pending[0]
	c.pending = c.pending[1:]
	return h, true
}
