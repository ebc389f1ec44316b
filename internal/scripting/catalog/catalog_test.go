package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/scripting/types"
)

func TestStandardCatalog(t *testing.T) {
	cat := Standard()
	require.GreaterOrEqual(t, cat.Len(), 90)

	for _, id := range []string{"if", "elif", "else", "end", "speak", "wait", "unlock", "spawn_group", types.CommentID} {
		_, ok := cat.Lookup(id)
		assert.True(t, ok, "missing %s", id)
	}

	s, ok := cat.Lookup("S")
	require.True(t, ok, "aliases resolve")
	assert.Equal(t, "speak", s.ID)

	s, ok = cat.Lookup("ADD_PORTRAIT")
	require.True(t, ok, "lookup ignores case")
	assert.Equal(t, "add_portrait", s.ID)

	_, ok = cat.Lookup("teleport")
	assert.False(t, ok)
}

func TestStandardSchemasAreWellFormed(t *testing.T) {
	for _, s := range Standard().All() {
		t.Run(s.ID, func(t *testing.T) {
			assert.NotEmpty(t, s.Category)
			seen := map[string]bool{}
			for _, kw := range append(append([]string{}, s.Keywords...), s.Optional...) {
				assert.False(t, seen[kw], "keyword %s repeated", kw)
				seen[kw] = true
			}
			for _, f := range s.Flags {
				assert.False(t, seen[f], "flag %s shadows a keyword", f)
			}
			for _, kw := range s.Verbatim {
				assert.True(t, seen[kw], "verbatim keyword %s is not declared", kw)
			}
		})
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(
		&types.CommandSchema{ID: "speak", Alias: "s"},
		&types.CommandSchema{ID: "S"},
	)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = New(&types.CommandSchema{})
	assert.Error(t, err)
}

func TestAllReturnsCopy(t *testing.T) {
	cat, err := New(&types.CommandSchema{ID: "a"}, &types.CommandSchema{ID: "b"})
	require.NoError(t, err)

	all := cat.All()
	all[0] = &types.CommandSchema{ID: "z"}
	assert.Equal(t, "a", cat.All()[0].ID)
	assert.Equal(t, 2, cat.Len())
}
