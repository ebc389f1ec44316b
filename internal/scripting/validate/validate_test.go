package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/scripting/catalog"
	"eventide/internal/scripting/types"
	"eventide/internal/world"
)

const fixture = `
map: {width: 5, height: 5}
units:
  - {nid: Eirika, position: {x: 0, y: 0}, hp: 10}
groups:
  - {nid: guards, units: [Eirika]}
`

func TestValidateKeywords(t *testing.T) {
	s := Standard(nil)

	tests := []struct {
		keyword string
		value   string
		ok      bool
	}{
		{"Time", "250", true},
		{"Time", "-1", false},
		{"NumBops", "0", false},
		{"Integer", "-40", true},
		{"Volume", "0.5", true},
		{"Volume", "2", false},
		{"Bool", "Yes", true},
		{"Bool", "maybe", false},
		{"Size", "2,3", true},
		{"Size", "0,3", false},
		{"Color3", "255,0,10", true},
		{"Color3", "256,0,0", false},
		{"StatList", "STR,2,DEF,-1", true},
		{"StatList", "STR", false},
		{"ScreenPosition", "Left", true},
		{"ScreenPosition", "120,40", true},
		{"ScreenPosition", "Upstairs", false},
		{"Portrait2", "Eirika", true},
		{"ScreenPosition3", "Sideways", false},
		{"ItemList", "vulnerary,iron_sword", true},
		{"ItemList", "vulnerary,,iron_sword", false},
		{"Placement", "PUSH", true},
		{"Placement", "shove", false},
		{"CardinalDirection", "west", true},
		{"Position", "{position}", true},
		{"Unit", "{unit}", true},
		{"Unit", "Anyone", true},
		{"Text", "", true},
		{"Unknown", "whatever", true},
	}

	for _, tt := range tests {
		t.Run(tt.keyword+"="+tt.value, func(t *testing.T) {
			err := s.Validate(tt.keyword, tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestNumberedKeywordLookup(t *testing.T) {
	s := Standard(nil)

	_, ok := s.For("Color3")
	require.True(t, ok, "Color3 has its own validator")
	_, ok = s.For("Color")
	assert.False(t, ok, "no base keyword to fall back to")
	assert.ErrorIs(t, s.Validate("Color3", "0,0"), ErrInvalid)

	_, ok = s.For("ScreenPosition12")
	assert.True(t, ok, "ScreenPosition12 shares ScreenPosition")
}

func TestReferencesCheckWorld(t *testing.T) {
	w, err := world.Parse([]byte(fixture))
	require.NoError(t, err)
	s := Standard(w)

	assert.NoError(t, s.Validate("Unit", "Eirika"))
	assert.ErrorIs(t, s.Validate("Unit", "Ephraim"), ErrInvalid)
	assert.NoError(t, s.Validate("GlobalUnitOrConvoy", "Convoy"))
	assert.NoError(t, s.Validate("Group", "guards"))
	assert.ErrorIs(t, s.Validate("StartingGroup", "archers"), ErrInvalid)
	assert.NoError(t, s.Validate("Position", "4,4"))
	assert.ErrorIs(t, s.Validate("Position", "5,0"), ErrInvalid)
	assert.NoError(t, s.Validate("Position", "Eirika"))
}

func TestCheck(t *testing.T) {
	cat := catalog.Standard()
	s := Standard(nil)
	schema, ok := cat.Lookup("speak")
	require.True(t, ok)

	assert.Empty(t, s.Check(schema, types.NewCommand("speak", "Eirika", "Hi", "no_block")))
	assert.Len(t, s.Check(schema, types.NewCommand("speak", "Eirika")), 1, "missing Text")

	wait, _ := cat.Lookup("wait")
	errs := s.Check(wait, types.NewCommand("wait", "-3", "extra"))
	assert.Len(t, errs, 2)

	assert.Empty(t, s.Check(wait, types.NewCommand(types.CommentID, "# note")))
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "T", "1", "yes", " y "} {
		b, err := ParseBool(v)
		require.NoError(t, err)
		assert.True(t, b, v)
	}
	b, err := ParseBool("No")
	require.NoError(t, err)
	assert.False(t, b)
}

func TestParseStatList(t *testing.T) {
	got, err := ParseStatList("STR,2, DEF ,-1,STR,1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"STR": 3, "DEF": -1}, got)
}
