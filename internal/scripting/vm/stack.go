package vm

import "fmt"

// CondStack holds the two parallel conditional stacks. The if stack says
// whether the innermost open block currently executes; the parse stack says
// whether a branch of that block has already been taken.
type CondStack struct {
	ifs   []bool
	parse []bool
}

// NewCondStack creates empty stacks
func NewCondStack() *CondStack {
	return &CondStack{}
}

// Push opens a block
func (cs *CondStack) Push(taken, resolved bool) {
	cs.ifs = append(cs.ifs, taken)
	cs.parse = append(cs.parse, resolved)
}

// Pop closes the innermost block
func (cs *CondStack) Pop() error {
	if len(cs.ifs) == 0 {
		return fmt.Errorf("conditional stack is empty")
	}
	cs.ifs = cs.ifs[:len(cs.ifs)-1]
	cs.parse = cs.parse[:len(cs.parse)-1]
	return nil
}

// Top returns the innermost block's flags
func (cs *CondStack) Top() (taken, resolved bool, err error) {
	if len(cs.ifs) == 0 {
		return false, false, fmt.Errorf("conditional stack is empty")
	}
	return cs.ifs[len(cs.ifs)-1], cs.parse[len(cs.parse)-1], nil
}

// SetTop replaces the innermost block's flags
func (cs *CondStack) SetTop(taken, resolved bool) {
	cs.ifs[len(cs.ifs)-1] = taken
	cs.parse[len(cs.parse)-1] = resolved
}

// Active returns true if every open block is executing
func (cs *CondStack) Active() bool {
	for _, v := range cs.ifs {
		if !v {
			return false
		}
	}
	return true
}

// IsEmpty returns true outside any block
func (cs *CondStack) IsEmpty() bool {
	return len(cs.ifs) == 0
}

// Depth returns the if stack depth
func (cs *CondStack) Depth() int {
	return len(cs.ifs)
}

// ParseDepth returns the parse stack depth. It always equals Depth.
func (cs *CondStack) ParseDepth() int {
	return len(cs.parse)
}

// Frames returns copies of both stacks, outermost first
func (cs *CondStack) Frames() (ifs, parse []bool) {
	return append([]bool(nil), cs.ifs...), append([]bool(nil), cs.parse...)
}

func restoreCondStack(ifs, parse []bool) (*CondStack, error) {
	if len(ifs) != len(parse) {
		return nil, fmt.Errorf("conditional stacks differ in depth: %d and %d", len(ifs), len(parse))
	}
	return &CondStack{
		ifs:   append([]bool(nil), ifs...),
		parse: append([]bool(nil), parse...),
	}, nil
}
