//go:build integration

package scripting

import (
	"testing"
	"time"

	"eventide/integration/setup"
	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/vm"
	"eventide/internal/scripting/vm/commands"
)

const tick = 16 * time.Millisecond

// ChapterTester plays the host side of a chapter: it ticks the event queue
// and answers choices from a fixed list
type ChapterTester struct {
	*setup.IntegrationTestSetup
	now     time.Duration
	answers []string
	held    *types.Handoff
	t       *testing.T
}

// NewChapterTester creates a tester over a project and world fixture
func NewChapterTester(t *testing.T, project, world string) *ChapterTester {
	return &ChapterTester{IntegrationTestSetup: setup.SetupRealComponents(t, project, world), t: t}
}

// Resume creates a tester that continues from slot
func (c *ChapterTester) Resume(slot string) *ChapterTester {
	return &ChapterTester{IntegrationTestSetup: c.LoadSlot(slot), t: c.t}
}

// Answer queues answers for the next choices, in order
func (c *ChapterTester) Answer(answers ...string) {
	c.answers = append(c.answers, answers...)
}

// Tick advances the queue up to n times and returns the head state after the
// last tick. It stops early once the queue drains.
func (c *ChapterTester) Tick(n int) vm.State {
	state := vm.StateComplete
	for i := 0; i < n; i++ {
		if c.held == nil {
			if h, ok := c.Console.PopPending(); ok {
				c.held = &h
			}
		}
		if c.held != nil && c.resolve(*c.held) {
			c.Manager.StatePopped(c.held.State)
			c.held = nil
		}
		if !c.Manager.Busy() {
			return vm.StateComplete
		}
		state = c.Manager.Update(c.now)
		c.now += tick
	}
	return state
}

// RunToEnd ticks until the queue drains
func (c *ChapterTester) RunToEnd() {
	c.t.Helper()
	c.Tick(10000)
	if c.Manager.Busy() {
		c.t.Fatalf("events still queued: %d", len(c.Manager.Queue()))
	}
}

// resolve answers a host state. A choice stays open until an answer is queued.
func (c *ChapterTester) resolve(h types.Handoff) bool {
	if h.State != commands.StateChoice {
		return true
	}
	if len(c.answers) == 0 {
		return false
	}
	c.Actions.Do(&action.SetGameVar{Name: h.Args["nid"], Value: c.answers[0]})
	c.answers = c.answers[1:]
	return true
}
