package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventide/internal/scripting/catalog"
	"eventide/internal/scripting/types"
)

func TestEveryCatalogCommandHasHandler(t *testing.T) {
	cat := catalog.Standard()
	reg := tableRegistry{}
	RegisterAllCommands(reg)

	for _, s := range cat.All() {
		assert.Contains(t, reg, s.ID, "catalog command without handler")
	}
	for id := range reg {
		_, ok := cat.Lookup(id)
		assert.True(t, ok, "handler %q has no schema", id)
	}
}

func TestFlowCommands(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("wait;250")
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, f.waits)
	assert.Error(t, f.exec("wait;soon"))

	f.mustExec("end_skip")
	assert.Equal(t, 1, f.endSkips)

	f.ctx = types.EventContext{Unit: "Eirika"}
	f.mustExec("trigger_script;Talk")
	f.mustExec("trigger_script;Talk;Seth")
	assert.Equal(t, []string{"Talk@Eirika", "Talk@Seth"}, f.triggered)
	assert.ErrorIs(t, f.exec("trigger_script;Talk;Nobody"), types.ErrReference)

	f.mustExec("break")
	assert.True(t, f.finished)
}

func TestAddUnit(t *testing.T) {
	t.Run("starting tile with fade", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("add_unit;Franz")
		assert.Equal(t, types.Position{X: 3, Y: 3}, *f.world.Unit("Franz").Position)
		assert.Equal(t, []time.Duration{UnitEntryTime}, f.waits)
		assert.Equal(t, []string{types.PresentUnitAnimation}, f.kinds())
	})

	t.Run("occupied tile picks the closest open one", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("add_unit;Franz;1,1;immediate")
		pos := *f.world.Unit("Franz").Position
		assert.Equal(t, 1, pos.Distance(types.Position{X: 1, Y: 1}))
		assert.NotEqual(t, types.Position{X: 2, Y: 1}, pos)
		assert.Empty(t, f.waits)
	})

	t.Run("giveup", func(t *testing.T) {
		f := newFakeVM(t)
		assert.ErrorIs(t, f.exec("add_unit;Franz;1,1;immediate;giveup"), ErrTileOccupied)
		assert.False(t, f.world.Unit("Franz").OnMap())
	})

	t.Run("stack", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("add_unit;Franz;1,1;immediate;stack")
		assert.Equal(t, *f.world.Unit("Eirika").Position, *f.world.Unit("Franz").Position)
	})

	t.Run("push moves the occupant", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("add_unit;Franz;1,1;immediate;push")
		assert.Equal(t, types.Position{X: 1, Y: 1}, *f.world.Unit("Franz").Position)
		eirika := *f.world.Unit("Eirika").Position
		assert.Equal(t, 1, eirika.Distance(types.Position{X: 1, Y: 1}))
		assert.NotEqual(t, types.Position{X: 2, Y: 1}, eirika)
	})

	t.Run("errors", func(t *testing.T) {
		f := newFakeVM(t)
		assert.Error(t, f.exec("add_unit;Eirika"), "already on the map")
		assert.ErrorIs(t, f.exec("add_unit;Nobody"), types.ErrReference)
		assert.ErrorIs(t, f.exec("add_unit;Franz;20,20"), types.ErrReference)
	})
}

func TestMoveUnit(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("move_unit;Seth;5,1")
	assert.Equal(t, types.Position{X: 5, Y: 1}, *f.world.Unit("Seth").Position)
	assert.Equal(t, []time.Duration{3 * UnitMoveTimePerTile}, f.waits)

	f.waits = nil
	f.mustExec("move_unit;Seth;5,3;no_block")
	assert.Empty(t, f.waits)

	f.ctx = types.EventContext{Position: &types.Position{X: 4, Y: 4}}
	f.mustExec("move_unit;Seth;{position};immediate")
	assert.Equal(t, types.Position{X: 4, Y: 4}, *f.world.Unit("Seth").Position)

	assert.ErrorIs(t, f.exec("move_unit;Franz;1,1"), types.ErrReference, "not on the map")
}

func TestRemoveKillResurrect(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("remove_unit;Bandit")
	assert.False(t, f.world.Unit("Bandit").OnMap())
	assert.Equal(t, []time.Duration{UnitEntryTime}, f.waits)

	f.waits = nil
	f.mustExec("kill_unit;Seth;immediate")
	seth := f.world.Unit("Seth")
	assert.True(t, seth.Dead)
	assert.Nil(t, seth.Position)
	assert.Zero(t, seth.HP)
	assert.Empty(t, f.waits)
	assert.Error(t, f.exec("kill_unit;Seth"))

	f.mustExec("resurrect;Seth")
	assert.False(t, f.world.Unit("Seth").Dead)
	assert.Equal(t, 30, f.world.Unit("Seth").HP)
	assert.Error(t, f.exec("resurrect;Seth"))
}

func TestRemoveAllEnemies(t *testing.T) {
	f := newFakeVM(t)
	f.mustExec("remove_all_enemies")
	assert.False(t, f.world.Unit("Bandit").OnMap())
	assert.True(t, f.world.Unit("Eirika").OnMap())
	assert.True(t, f.world.Unit("Seth").OnMap())

	f.mustExec("remove_all_units")
	assert.False(t, f.world.Unit("Eirika").OnMap())
}

func TestGroupExpansion(t *testing.T) {
	t.Run("add_group", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("add_group;reinforcements;reinforcements;warp")
		assert.Equal(t, []string{
			"add_unit;Franz;3,3;warp",
			"add_unit;Gilliam;4,3;warp",
		}, f.splicedLines())
	})

	t.Run("spawn_group blocks on the last move", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("spawn_group;reinforcements;west;reinforcements")
		assert.Equal(t, []string{
			"add_unit;Franz;0,3;immediate;closest",
			"move_unit;Franz;3,3;no_block",
			"add_unit;Gilliam;0,3;immediate;closest",
			"move_unit;Gilliam;4,3",
		}, f.splicedLines())
	})

	t.Run("spawn_group no_block", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("spawn_group;reinforcements;north;reinforcements;no_block")
		assert.Equal(t, []string{
			"add_unit;Franz;3,0;immediate;closest",
			"move_unit;Franz;3,3;no_block",
			"add_unit;Gilliam;4,0;immediate;closest",
			"move_unit;Gilliam;4,3;no_block",
		}, f.splicedLines())
	})

	t.Run("units already on the map are skipped", func(t *testing.T) {
		f := newFakeVM(t)
		f.mustExec("add_unit;Franz;3,3;immediate")
		f.mustExec("add_group;reinforcements")
		assert.Equal(t, []string{"add_unit;Gilliam;4,3"}, f.splicedLines())

		f.spliced = nil
		f.mustExec("move_group;reinforcements;reinforcements")
		assert.Equal(t, []string{"move_unit;Franz;3,3"}, f.splicedLines())

		f.spliced = nil
		f.mustExec("remove_group;reinforcements;immediate")
		assert.Equal(t, []string{"remove_unit;Franz;immediate"}, f.splicedLines())
	})

	t.Run("errors", func(t *testing.T) {
		f := newFakeVM(t)
		assert.Error(t, f.exec("spawn_group;reinforcements;up;reinforcements"))
		assert.ErrorIs(t, f.exec("add_group;nobody"), types.ErrReference)
		assert.Empty(t, f.spliced)
	})
}

func TestGiveAndRemoveItems(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("give_item;Eirika;vulnerary")
	items := f.world.Unit("Eirika").Items
	require.Len(t, items, 2)
	assert.Equal(t, "vulnerary", items[1].NID)
	assert.Equal(t, items[1].UID, f.ctx.ItemUID)
	require.Len(t, f.requests, 1)
	assert.Equal(t, "Got Vulnerary", f.requests[0].Args["text"])
	assert.True(t, f.requests[0].Blocking)

	f.requests = nil
	for i := 0; i < MaxInventory; i++ {
		f.mustExec("give_item;Seth;vulnerary;no_banner")
	}
	assert.Empty(t, f.requests)
	f.mustExec("give_item;Seth;vulnerary")
	assert.Len(t, f.world.Unit("Seth").Items, MaxInventory)
	assert.Len(t, f.world.ConvoyItems("eirika"), 1)
	assert.Equal(t, "Got Vulnerary (sent to convoy)", f.requests[0].Args["text"])

	f.mustExec("give_item;convoy;chest_key;no_banner")
	require.Len(t, f.world.ConvoyItems(""), 1)
	f.mustExec("remove_item;convoy;chest_key")
	assert.Empty(t, f.world.ConvoyItems(""))

	assert.ErrorIs(t, f.exec("give_item;Eirika;excalibur"), types.ErrReference)

	f.mustExec("remove_item;Eirika;1")
	assert.Equal(t, "vulnerary", f.world.Unit("Eirika").Items[0].NID)
	assert.ErrorIs(t, f.exec("remove_item;Eirika;door_key"), types.ErrReference)
}

func TestGiveItemsExpands(t *testing.T) {
	f := newFakeVM(t)
	f.mustExec("give_items;Seth;vulnerary,chest_key;droppable")
	assert.Equal(t, []string{
		"give_item;Seth;vulnerary;droppable",
		"give_item;Seth;chest_key;droppable",
	}, f.splicedLines())
}

func TestUnlock(t *testing.T) {
	f := newFakeVM(t)

	f.ctx = types.EventContext{Unit: "Eirika"}
	f.mustExec("unlock;{unit}")
	assert.Equal(t, []string{"find_unlock;{unit}", "spend_unlock;{unit}"}, f.splicedLines())
	assert.ErrorIs(t, f.exec("find_unlock;{unit}"), types.ErrReference, "no region in context")

	f.ctx.Region = "door1"
	f.mustExec("find_unlock;{unit}")
	assert.Equal(t, 1, f.ctx.ItemUID)
	f.mustExec("spend_unlock;{unit}")
	require.Len(t, f.world.Unit("Eirika").Items, 1)
	assert.Equal(t, 1, f.world.Unit("Eirika").Items[0].Uses)
	assert.Nil(t, f.world.Region("door1"))

	f.mustExec("find_unlock;{unit}")
	f.mustExec("spend_unlock;{unit}")
	assert.Empty(t, f.world.Unit("Eirika").Items, "key breaks on its last use")

	assert.ErrorIs(t, f.exec("find_unlock;Seth"), types.ErrReference)
	assert.ErrorIs(t, f.exec("spend_unlock;{unit}"), types.ErrReference)
}

func TestVariables(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("game_var;X;2 + 3")
	f.mustExec("inc_game_var;X")
	v, _ := f.world.GameVar("X")
	assert.Equal(t, 6, v)

	f.mustExec("inc_game_var;X;0.5")
	v, _ = f.world.GameVar("X")
	assert.Equal(t, 6.5, v)

	f.mustExec("inc_game_var;Fresh")
	v, _ = f.world.GameVar("Fresh")
	assert.Equal(t, 1, v)

	f.mustExec("game_var;Name;'Eirika'")
	assert.Error(t, f.exec("inc_game_var;Name"))
	assert.Error(t, f.exec("game_var;Bad;1 +"))

	f.mustExec("level_var;Seen;unit_on_map('Seth')")
	v, _ = f.world.LevelVar("Seen")
	assert.Equal(t, true, v)
	f.mustExec("inc_level_var;Turns;2")
	v, _ = f.world.LevelVar("Turns")
	assert.Equal(t, 2, v)

	f.mustExec("win_game")
	v, _ = f.world.LevelVar(LevelVarWin)
	assert.Equal(t, true, v)
	f.mustExec("set_next_chapter;Chapter2")
	assert.Equal(t, "Chapter2", f.world.Setting(types.SettingNextChapter))
}

func TestGiveMoney(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("give_money;500;no_banner")
	assert.Equal(t, 500, f.world.Money(""))
	assert.Empty(t, f.requests)

	f.mustExec("give_money;-200;eirika")
	assert.Equal(t, -200, f.world.Money("eirika"))
	require.Len(t, f.requests, 1)
	assert.Equal(t, "Lost 200 gold", f.requests[0].Args["text"])

	assert.Error(t, f.exec("give_money;lots"))
}

func TestRegions(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("add_region;trap;3,4;2,2;event;Trap;only_once")
	r := f.world.Region("trap")
	require.NotNil(t, r)
	assert.Equal(t, types.Position{X: 3, Y: 4}, r.Position)
	assert.Equal(t, [2]int{2, 2}, r.Size)
	assert.Equal(t, "event", r.Type)
	assert.Equal(t, "Trap", r.SubNID)
	assert.True(t, r.OnlyOnce)
	assert.True(t, r.Contains(types.Position{X: 4, Y: 5}))
	assert.Error(t, f.exec("add_region;trap;1,1;1,1;normal"))
	assert.Error(t, f.exec("add_region;pit;1,1;0,1;normal"))

	f.mustExec("region_condition;trap;unit_on_map('Seth')")
	assert.Equal(t, "unit_on_map('Seth')", f.world.Region("trap").Condition)

	f.mustExec("remove_region;trap")
	assert.Nil(t, f.world.Region("trap"))
	assert.ErrorIs(t, f.exec("remove_region;trap"), types.ErrReference)
}

func TestTalkAndFlags(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("add_talk;Eirika;Seth")
	assert.True(t, f.world.Flag(types.FlagTalk, TalkKey("Eirika", "Seth")))
	f.mustExec("remove_talk;Eirika;Seth")
	assert.False(t, f.world.Flag(types.FlagTalk, TalkKey("Eirika", "Seth")))
	assert.ErrorIs(t, f.exec("add_talk;Eirika;Nobody"), types.ErrReference)

	f.mustExec("add_lore;Renais")
	assert.True(t, f.world.Flag(types.FlagLore, "Renais"))
}

func TestPortraits(t *testing.T) {
	f := newFakeVM(t)
	f.ctx = types.EventContext{Unit: "Eirika"}

	f.mustExec("add_portrait;{unit};Left")
	require.Len(t, f.requests, 1)
	assert.Equal(t, "EirikaPortrait", f.requests[0].Args["portrait"])
	assert.True(t, f.requests[0].Blocking)

	f.mustExec("add_portrait;Seth;Right;immediate")
	assert.False(t, f.requests[1].Blocking)

	f.mustExec("multi_add_portrait;Eirika;Left;Seth;Right")
	assert.Equal(t, []string{
		"add_portrait;Eirika;Left;no_block",
		"add_portrait;Seth;Right",
	}, f.splicedLines())
}

func TestAudio(t *testing.T) {
	f := newFakeVM(t)

	f.mustExec("music;Theme")
	f.mustExec("music;Battle;1000")
	f.mustExec("music_clear")
	assert.Equal(t, []string{"Theme 400ms", "Battle 1s", "stop 400ms"}, f.music)

	f.mustExec("sound;Hit;0.5")
	assert.Equal(t, []string{"Hit"}, f.sounds)
	assert.Error(t, f.exec("sound;Hit;loud"))
}

func TestDialoguePrompts(t *testing.T) {
	f := newFakeVM(t)
	f.ctx = types.EventContext{Unit: "Seth"}

	f.mustExec("game_var;Count;3")
	f.mustExec("speak;{unit};I count {var:Count}.;no_block")
	require.Len(t, f.requests, 1)
	assert.Equal(t, "Seth", f.requests[0].Args["speaker"])
	assert.Equal(t, "I count 3.", f.requests[0].Args["text"])
	assert.False(t, f.requests[0].Blocking)

	f.mustExec("choice;pick;Where to?;Left,Right")
	require.Len(t, f.handoffs, 1)
	assert.Equal(t, StateChoice, f.handoffs[0].State)
	assert.Equal(t, "Left,Right", f.handoffs[0].Args["choices"])
	assert.Error(t, f.exec("choice;pick;Where to?; , "))

	f.mustExec("shop;Seth;vulnerary")
	require.Len(t, f.handoffs, 2)
	assert.Equal(t, StateShop, f.handoffs[1].State)
	assert.Equal(t, "Seth", f.handoffs[1].Args["unit"])
}

func TestActionsRewind(t *testing.T) {
	f := newFakeVM(t)
	before := f.world.Export()
	rngBefore := f.rng.State()

	lines := []string{
		"move_unit;Seth;5,1",
		"give_item;Eirika;vulnerary;no_banner",
		"add_unit;Franz;1,1;immediate",
		"kill_unit;Eirika;immediate",
		"game_var;X;1",
		"give_money;100;no_banner",
		"add_region;trap;3,4;1,1;event",
		"remove_region;door1",
		"add_talk;Seth;Bandit",
		"change_objective_simple;Rout the enemy",
		"remove_all_enemies",
	}
	for _, line := range lines {
		f.mustExec(line)
	}
	require.NotEqual(t, before, f.world.Export())
	require.NotEqual(t, rngBefore, f.rng.State(), "placing Franz broke a tie")
	after := f.world.Export()

	n := f.log.Len()
	assert.Equal(t, n, f.log.RewindTo(0))
	assert.Zero(t, f.log.Len())
	assert.Equal(t, before, f.world.Export())
	assert.Equal(t, rngBefore, f.rng.State())

	for _, line := range lines {
		f.mustExec(line)
	}
	assert.Equal(t, after, f.world.Export(), "a replay grants the same uid and picks the same tile")
}

func TestRewindOneCommandReplaysPlacement(t *testing.T) {
	f := newFakeVM(t)
	f.mustExec("give_item;Seth;vulnerary;no_banner")
	mark := f.log.Len()
	uid := f.world.Unit("Seth").Items[0].UID

	f.mustExec("give_item;Seth;vulnerary;no_banner")
	f.mustExec("add_unit;Franz;1,1;immediate")
	second := f.world.Unit("Seth").Items[1].UID
	tile := *f.world.Unit("Franz").Position
	assert.Equal(t, uid+1, second)

	for i := 0; i < 5; i++ {
		f.log.RewindTo(mark)
		assert.Len(t, f.world.Unit("Seth").Items, 1)
		assert.False(t, f.world.Unit("Franz").OnMap())

		f.mustExec("give_item;Seth;vulnerary;no_banner")
		f.mustExec("add_unit;Franz;1,1;immediate")
		assert.Equal(t, second, f.world.Unit("Seth").Items[1].UID)
		assert.Equal(t, tile, *f.world.Unit("Franz").Position)
	}
}
