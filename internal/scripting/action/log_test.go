package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/random"
	"eventide/internal/scripting/types"
	"eventide/internal/world"
)

func newWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.Parse([]byte(`
map: {width: 4, height: 4}
units:
  - {nid: Eirika, position: {x: 0, y: 0}, hp: 16}
regions:
  - {nid: door, position: {x: 1, y: 1}, condition: "true"}
game_vars: {Chapter: 1}
`))
	require.NoError(t, err)
	return w
}

func TestLogRewind(t *testing.T) {
	w := newWorld(t)
	before := w.Export()
	l := NewLog(w)

	l.Do(&SetGameVar{Name: "Chapter", Value: 2})
	l.Do(&SetGameVar{Name: "Seen", Value: true})
	l.Do(&SetLevelVar{Name: "turns", Value: 4})
	l.Do(&GainMoney{Party: "eirika", Amount: 300})
	l.Do(&SetSetting{Key: types.SettingObjectiveWin, Value: "Seize"})
	l.Do(&SetFlag{Set: types.FlagMarket, Key: "iron_sword", On: true})
	l.Do(&MoveUnit{NID: "Eirika", To: &types.Position{X: 3, Y: 3}})
	l.Do(&UpdateUnit{NID: "Eirika", Mutate: func(u *types.Unit) { u.HP = 1; u.Tags = append(u.Tags, "Hurt") }})
	l.Do(&SetConvoy{Party: "eirika", Items: []*types.Item{{UID: 9, NID: "vulnerary"}}})
	l.Do(&AddRegion{Region: &types.Region{NID: "door", Position: types.Position{X: 2, Y: 2}}})
	l.Do(&SetRegionCondition{NID: "door", Condition: "false"})
	l.Do(&RemoveRegion{NID: "door"})
	l.Do(&SetGameVar{Name: "Chapter", Delete: true})
	require.Equal(t, 13, l.Len())

	_, ok := w.GameVar("Chapter")
	assert.False(t, ok)
	assert.Equal(t, types.Position{X: 3, Y: 3}, *w.Unit("Eirika").Position)
	assert.Nil(t, w.Region("door"))

	assert.Equal(t, 13, l.RewindTo(0))
	assert.Equal(t, before, w.Export())
	assert.False(t, l.Undo())
}

func TestRewindPartial(t *testing.T) {
	w := newWorld(t)
	l := NewLog(w)

	l.Do(&SetGameVar{Name: "Chapter", Value: 2})
	mark := l.Len()
	l.Do(&SetGameVar{Name: "Chapter", Value: 3})
	l.Do(&GainMoney{Amount: 50})

	assert.Equal(t, 2, l.RewindTo(mark))
	v, _ := w.GameVar("Chapter")
	assert.Equal(t, 2, v)
	assert.Zero(t, w.Money(""))
	assert.Equal(t, 1, l.Rewind(5))
}

func TestActionsOnMissingTargets(t *testing.T) {
	w := newWorld(t)
	l := NewLog(w)

	l.Do(&MoveUnit{NID: "Nobody", To: &types.Position{X: 1, Y: 1}})
	l.Do(&UpdateUnit{NID: "Nobody", Mutate: func(u *types.Unit) { u.HP = 0 }})
	l.Do(&SetRegionCondition{NID: "nowhere", Condition: "x"})
	assert.Equal(t, 3, l.RewindTo(0))
}

func TestClaimItemUIDRewind(t *testing.T) {
	w := newWorld(t)
	l := NewLog(w)
	start := w.NextItemUID()

	l.Do(&ClaimItemUID{UID: start})
	l.Do(&ClaimItemUID{UID: start + 1})
	assert.Equal(t, start+2, w.NextItemUID())

	l.Undo()
	assert.Equal(t, start+1, w.NextItemUID())
	l.Undo()
	assert.Equal(t, start, w.NextItemUID())
}

func TestRewindRestoresRandom(t *testing.T) {
	w := newWorld(t)
	rng := random.New(21)
	l := NewLog(w).TrackRandom(rng)

	rng.Intn(10)
	l.Do(&SetGameVar{Name: "Chapter", Value: 2})
	mark := l.Len()
	atMark := rng.State()

	first := []int{rng.Intn(1000), rng.Intn(1000)}
	l.Do(&GainMoney{Amount: 50})
	rng.Intn(1000)
	l.Do(&GainMoney{Amount: 50})

	assert.Equal(t, 2, l.RewindTo(mark))
	assert.Equal(t, atMark, rng.State())
	assert.Equal(t, first, []int{rng.Intn(1000), rng.Intn(1000)})

	l.RewindTo(0)
	assert.Equal(t, random.New(21).State(), rng.State(), "draws before the first action are undone too")
}
