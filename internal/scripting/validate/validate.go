// Package validate checks and normalizes command arguments by keyword.
// The parser uses it in strict mode; editor tooling uses Check to lint whole
// scripts. The interpreter never depends on validation having run.
package validate

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"eventide/internal/scripting/types"
)

var ErrInvalid = errors.New("invalid argument")

// Validator checks one argument value
type Validator func(value string) error

// Set maps keywords to validators. Reference checks consult the world when
// one is given.
type Set struct {
	byKeyword map[string]Validator
	world     types.World
}

// Standard returns the validators for every keyword of the standard catalog.
// w may be nil, in which case names are accepted without lookup.
func Standard(w types.World) *Set {
	s := &Set{byKeyword: map[string]Validator{}, world: w}

	for _, kw := range []string{"Time", "FadeIn", "FadeOut", "Speed", "Width", "Limit", "RowWidth"} {
		s.byKeyword[kw] = nonNegativeInt
	}
	for _, kw := range []string{"NumBops", "Experience", "HP"} {
		s.byKeyword[kw] = positiveInt
	}
	s.byKeyword["Integer"] = integer
	s.byKeyword["Volume"] = volume
	s.byKeyword["Bool"] = boolean
	s.byKeyword["Size"] = size
	s.byKeyword["Color3"] = color3
	s.byKeyword["StatList"] = statList
	s.byKeyword["ScreenPosition"] = screenPosition
	for _, kw := range []string{"ExpressionList", "ItemList", "Choices", "Credits"} {
		s.byKeyword[kw] = list
	}

	s.byKeyword["Slide"] = oneOf("left", "right")
	s.byKeyword["Direction"] = oneOf("open", "close")
	s.byKeyword["EntryType"] = oneOf("fade", "immediate", "warp", "swoosh")
	s.byKeyword["RemoveType"] = oneOf("fade", "immediate", "warp", "swoosh")
	s.byKeyword["MovementType"] = oneOf("normal", "fade", "immediate", "warp", "swoosh")
	s.byKeyword["Placement"] = oneOf("giveup", "stack", "closest", "push")
	s.byKeyword["Team"] = oneOf("player", "enemy", "enemy2", "other")
	s.byKeyword["RegionType"] = oneOf("normal", "event", "status", "formation", "time")
	s.byKeyword["CardinalDirection"] = oneOf("north", "south", "east", "west")
	s.byKeyword["ShakeType"] = oneOf("default", "combat", "kill")
	s.byKeyword["LayerTransition"] = oneOf("fade", "immediate")
	s.byKeyword["PhaseMusic"] = oneOf("player_phase", "enemy_phase", "enemy2_phase", "other_phase",
		"player_battle", "enemy_battle", "enemy2_battle", "other_battle")

	s.byKeyword["Position"] = s.position
	for _, kw := range []string{"Unit", "GlobalUnit"} {
		s.byKeyword[kw] = s.unit
	}
	s.byKeyword["GlobalUnitOrConvoy"] = s.unitOrConvoy
	for _, kw := range []string{"Group", "StartingGroup"} {
		s.byKeyword[kw] = s.group
	}
	return s
}

// For returns the validator bound to keyword. A keyword with no validator of
// its own that ends in digits, such as Unit2, falls back to its base
// keyword. Color3 keeps its own.
func (s *Set) For(keyword string) (Validator, bool) {
	if v, ok := s.byKeyword[keyword]; ok {
		return v, true
	}
	v, ok := s.byKeyword[strings.TrimRight(keyword, "0123456789")]
	return v, ok
}

// Validate checks value against keyword. Empty values and keywords without
// a validator always pass.
func (s *Set) Validate(keyword, value string) error {
	if value == "" {
		return nil
	}
	v, ok := s.For(keyword)
	if !ok {
		return nil
	}
	if err := v(value); err != nil {
		return fmt.Errorf("%s %q: %w", keyword, value, err)
	}
	return nil
}

// Check lints a parsed command: missing required keywords, bad values and
// unlabeled arguments that are not declared flags.
func (s *Set) Check(schema *types.CommandSchema, cmd *types.Command) []error {
	if cmd.IsComment() {
		return nil
	}
	var errs []error
	for i, kw := range schema.Keywords {
		if cmd.Value(i) == "" {
			errs = append(errs, fmt.Errorf("%s: missing required %s", schema.ID, kw))
		}
	}
	for i, value := range cmd.Values {
		kw := schema.KeywordAt(i)
		if i >= len(schema.Keywords) && schema.HasFlag(value) {
			continue
		}
		if kw == types.UnlabeledKeyword {
			errs = append(errs, fmt.Errorf("%s: unexpected argument %q", schema.ID, value))
			continue
		}
		if err := s.Validate(kw, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", schema.ID, err))
		}
	}
	return errs
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func integer(value string) error {
	if _, err := strconv.Atoi(value); err != nil {
		return invalid("not an integer")
	}
	return nil
}

func nonNegativeInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return invalid("not a non-negative integer")
	}
	return nil
}

func positiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return invalid("not a positive integer")
	}
	return nil
}

func volume(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || f > 1 {
		return invalid("volume must be between 0 and 1")
	}
	return nil
}

// ParseBool accepts the spellings scripts use for booleans
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n":
		return false, nil
	}
	return false, invalid("not a boolean")
}

func boolean(value string) error {
	_, err := ParseBool(value)
	return err
}

func ints(value string, n int) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, invalid("expected %d comma separated integers", n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, invalid("expected %d comma separated integers", n)
		}
		out[i] = v
	}
	return out, nil
}

func size(value string) error {
	wh, err := ints(value, 2)
	if err != nil {
		return err
	}
	if wh[0] <= 0 || wh[1] <= 0 {
		return invalid("size must be positive")
	}
	return nil
}

func color3(value string) error {
	rgb, err := ints(value, 3)
	if err != nil {
		return err
	}
	for _, c := range rgb {
		if c < 0 || c > 255 {
			return invalid("color component out of range")
		}
	}
	return nil
}

// ParseStatList parses STAT,delta pairs
func ParseStatList(value string) (map[string]int, error) {
	parts := strings.Split(value, ",")
	if len(parts)%2 != 0 {
		return nil, invalid("stat list needs stat,value pairs")
	}
	out := make(map[string]int, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		stat := strings.TrimSpace(parts[i])
		n, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if stat == "" || err != nil {
			return nil, invalid("bad stat pair %q,%q", parts[i], parts[i+1])
		}
		out[stat] += n
	}
	return out, nil
}

func statList(value string) error {
	_, err := ParseStatList(value)
	return err
}

// ScreenPositions are the named portrait slots
var ScreenPositions = []string{
	"OffscreenLeft", "FarLeft", "Left", "MidLeft", "CenterLeft", "Center",
	"CenterRight", "MidRight", "Right", "FarRight", "OffscreenRight",
}

func screenPosition(value string) error {
	if slices.Contains(ScreenPositions, value) {
		return nil
	}
	if _, err := strconv.Atoi(value); err == nil {
		return nil
	}
	if _, err := ints(value, 2); err == nil {
		return nil
	}
	return invalid("unknown screen position")
}

func list(value string) error {
	for _, p := range strings.Split(value, ",") {
		if strings.TrimSpace(p) == "" {
			return invalid("empty list entry")
		}
	}
	return nil
}

func oneOf(options ...string) Validator {
	return func(value string) error {
		if slices.Contains(options, strings.ToLower(value)) {
			return nil
		}
		return invalid("expected one of %s", strings.Join(options, ", "))
	}
}

func isPseudoRef(value string) bool {
	return value == types.RefUnit || value == types.RefUnit2 || value == types.RefPosition
}

func (s *Set) unit(value string) error {
	if isPseudoRef(value) || s.world == nil {
		return nil
	}
	if s.world.Unit(value) == nil {
		return invalid("no unit named %q", value)
	}
	return nil
}

func (s *Set) unitOrConvoy(value string) error {
	if strings.EqualFold(value, "convoy") {
		return nil
	}
	return s.unit(value)
}

func (s *Set) group(value string) error {
	if s.world == nil {
		return nil
	}
	if s.world.Group(value) == nil {
		return invalid("no group named %q", value)
	}
	return nil
}

func (s *Set) position(value string) error {
	if isPseudoRef(value) {
		return nil
	}
	if pos, err := types.ParsePosition(value); err == nil {
		if s.world != nil && !s.world.InBounds(pos) {
			return invalid("position off the map")
		}
		return nil
	}
	return s.unit(value)
}
