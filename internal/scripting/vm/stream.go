package vm

import (
	"errors"
	"fmt"

	"eventide/internal/scripting/types"
)

var ErrInsertBehindCursor = errors.New("insert at or behind cursor")

// Stream is the instruction sequence of one Event with its single cursor.
// Commands may only be inserted strictly after the cursor.
type Stream struct {
	cmds   []*types.Command
	cursor int
}

// NewStream creates a stream positioned at its first command
func NewStream(cmds []*types.Command) *Stream {
	s := &Stream{cmds: make([]*types.Command, len(cmds))}
	copy(s.cmds, cmds)
	return s
}

// Len returns the number of commands
func (s *Stream) Len() int {
	return len(s.cmds)
}

// Cursor returns the index of the current command
func (s *Stream) Cursor() int {
	return s.cursor
}

// At returns the command at idx
func (s *Stream) At(idx int) *types.Command {
	if idx < 0 || idx >= len(s.cmds) {
		return nil
	}
	return s.cmds[idx]
}

// Current returns the command under the cursor
func (s *Stream) Current() (*types.Command, bool) {
	if s.Exhausted() {
		return nil, false
	}
	return s.cmds[s.cursor], true
}

// Exhausted returns true once the cursor has passed the last command
func (s *Stream) Exhausted() bool {
	return s.cursor >= len(s.cmds)
}

// Advance moves the cursor forward by one
func (s *Stream) Advance() {
	if s.cursor < len(s.cmds) {
		s.cursor++
	}
}

// InsertAfter inserts cmd so that it lands at idx+1. idx must not be behind
// the cursor.
func (s *Stream) InsertAfter(idx int, cmd *types.Command) error {
	if idx < s.cursor {
		return fmt.Errorf("%w: index %d, cursor %d", ErrInsertBehindCursor, idx, s.cursor)
	}
	if idx >= len(s.cmds) {
		s.cmds = append(s.cmds, cmd)
		return nil
	}
	s.cmds = append(s.cmds, nil)
	copy(s.cmds[idx+2:], s.cmds[idx+1:])
	s.cmds[idx+1] = cmd
	return nil
}

// Splice inserts cmds right after the cursor so that they run next, in order
func (s *Stream) Splice(cmds ...*types.Command) error {
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := s.InsertAfter(s.cursor, cmds[i]); err != nil {
			return err
		}
	}
	return nil
}

// Commands returns a copy of the whole stream
func (s *Stream) Commands() []*types.Command {
	out := make([]*types.Command, len(s.cmds))
	copy(out, s.cmds)
	return out
}
