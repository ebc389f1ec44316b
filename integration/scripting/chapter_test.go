//go:build integration

package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/scripting/types"
	"eventide/internal/scripting/vm"
)

const chapterWorld = `
map:
  width: 10
  height: 10
items:
  - {nid: chest_key, name: Chest Key, uses: 1, unlock: true}
  - {nid: vulnerary, name: Vulnerary, uses: 3}
units:
  - nid: Eirika
    name: Eirika
    team: player
    party: eirika
    position: {x: 1, y: 1}
    hp: 16
    items:
      - {uid: 1, nid: chest_key, name: Chest Key, uses: 1, unlock: true}
  - nid: Seth
    name: Seth
    team: player
    party: eirika
    position: {x: 2, y: 1}
    hp: 30
regions:
  - nid: door1
    type: event
    sub_nid: Door
    position: {x: 1, y: 2}
    size: [1, 1]
    only_once: true
`

const chapterProject = `
events:
  - nid: intro
    trigger: level_start
    priority: 10
    only_once: true
    script: |
      speak;Eirika;Where are we?
      choice;path;Which way?;Left,Right
      if;game_var('path') == 'Right'
      speak;Seth;To the right.
      give_item;Eirika;vulnerary;no_banner
      else
      speak;Seth;To the left.
      end
  - nid: door
    trigger: visit
    condition: region == 'door1'
    script: |
      unlock;{unit}
      speak;{unit};Opened.
`

func itemNIDs(items []*types.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.NID)
	}
	return out
}

func TestChapterFlow(t *testing.T) {
	c := NewChapterTester(t, chapterProject, chapterWorld)
	c.Answer("Right")

	require.Equal(t, 1, c.Manager.Trigger("level_start", types.EventContext{}))
	c.RunToEnd()

	lines := c.Lines()
	assert.Contains(t, lines, "Eirika: Where are we?")
	assert.Contains(t, lines, "Seth: To the right.")
	assert.NotContains(t, lines, "Seth: To the left.")
	assert.Equal(t, []string{"chest_key", "vulnerary"}, itemNIDs(c.World.Unit("Eirika").Items))

	assert.Zero(t, c.Manager.Trigger("visit", types.EventContext{Unit: "Eirika", Region: "elsewhere"}))
	require.Equal(t, 1, c.Manager.Trigger("visit", types.EventContext{Unit: "Eirika", Region: "door1"}))
	c.RunToEnd()

	assert.Contains(t, c.Lines(), "Eirika: Opened.")
	assert.Nil(t, c.World.Region("door1"))
	assert.Equal(t, []string{"vulnerary"}, itemNIDs(c.World.Unit("Eirika").Items))

	assert.Zero(t, c.Manager.Trigger("level_start", types.EventContext{}), "intro only plays once")
}

func TestSaveWhilePausedAndResume(t *testing.T) {
	c := NewChapterTester(t, chapterProject, chapterWorld)
	c.Manager.Trigger("level_start", types.EventContext{})

	state := c.Tick(5)
	require.Equal(t, vm.StatePaused, state, "waiting on the choice")
	c.SaveSlot("quick")

	r := c.Resume("quick")
	r.Answer("Left")
	r.RunToEnd()

	lines := r.Lines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "=> choice", "the loaded event asks for its menu again")
	assert.Contains(t, lines, "Seth: To the left.")
	assert.NotContains(t, lines, "Eirika: Where are we?", "lines before the save are not replayed")
	assert.True(t, r.Manager.Triggered("intro"))
	assert.Equal(t, []string{"chest_key"}, itemNIDs(r.World.Unit("Eirika").Items))
}

func TestSaveBetweenEvents(t *testing.T) {
	c := NewChapterTester(t, chapterProject, chapterWorld)
	c.Answer("Right")
	c.Manager.Trigger("level_start", types.EventContext{})
	c.RunToEnd()
	c.SaveSlot("after_intro")

	r := c.Resume("after_intro")
	assert.False(t, r.Manager.Busy())
	assert.Zero(t, r.Manager.Trigger("level_start", types.EventContext{}))
	assert.Equal(t, []string{"chest_key", "vulnerary"}, itemNIDs(r.World.Unit("Eirika").Items))

	v, ok := r.World.GameVar("path")
	require.True(t, ok)
	assert.Equal(t, "Right", v)
}
