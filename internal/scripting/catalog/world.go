package catalog

import "eventide/internal/scripting/types"

var variableSchemas = []*types.CommandSchema{
	{
		ID:       "game_var",
		Category: types.CategoryVariables,
		Keywords: []string{"Nid", "Expression"},
		Description: `Sets the game variable *Nid* to the value of *Expression*. Game variables
persist across chapters.

Example: game_var;Recruited;level_var('talked') + 1`,
	},
	{
		ID:          "inc_game_var",
		Category:    types.CategoryVariables,
		Keywords:    []string{"Nid"},
		Optional:    []string{"Expression"},
		Description: "Adds *Expression* (default 1) to the game variable *Nid*.",
	},
	{
		ID:          "level_var",
		Category:    types.CategoryVariables,
		Keywords:    []string{"Nid", "Expression"},
		Description: "Sets the level variable *Nid*. Level variables are cleared between chapters.",
	},
	{
		ID:          "inc_level_var",
		Category:    types.CategoryVariables,
		Keywords:    []string{"Nid"},
		Optional:    []string{"Expression"},
		Description: "Adds *Expression* (default 1) to the level variable *Nid*.",
	},
	{
		ID:          "give_money",
		Category:    types.CategoryVariables,
		Keywords:    []string{"Integer"},
		Optional:    []string{"Party"},
		Flags:       []string{"no_banner"},
		Description: "Adds *Integer* gold (may be negative) to *Party*, or to the current party.",
	},
	{
		ID:          "win_game",
		Category:    types.CategoryVariables,
		Description: "Marks the chapter as won once the current event completes.",
	},
	{
		ID:          "lose_game",
		Category:    types.CategoryVariables,
		Description: "Marks the chapter as lost once the current event completes.",
	},
	{
		ID:          "set_next_chapter",
		Category:    types.CategoryVariables,
		Keywords:    []string{"Chapter"},
		Description: "Chooses the chapter that follows this one.",
	},
}

var unitSchemas = []*types.CommandSchema{
	{
		ID:       "add_unit",
		Alias:    "add",
		Category: types.CategoryUnits,
		Keywords: []string{"Unit"},
		Optional: []string{"Position", "EntryType", "Placement"},
		Description: `Places *Unit* on the map at *Position* (x,y, a unit nid, or the unit's
own starting position). *EntryType* is fade, immediate, warp or swoosh.
*Placement* decides what happens when the tile is taken: giveup, stack,
closest (default) or push.`,
	},
	{
		ID:          "move_unit",
		Alias:       "move",
		Category:    types.CategoryUnits,
		Keywords:    []string{"Unit"},
		Optional:    []string{"Position", "MovementType", "Placement"},
		Flags:       []string{"no_block", "no_follow"},
		Description: "Moves *Unit* to *Position*. *MovementType* is normal, fade, immediate, warp or swoosh.",
	},
	{
		ID:          "remove_unit",
		Alias:       "remove",
		Category:    types.CategoryUnits,
		Keywords:    []string{"Unit"},
		Optional:    []string{"RemoveType"},
		Description: "Takes *Unit* off the map without killing it.",
	},
	{
		ID:          "kill_unit",
		Alias:       "kill",
		Category:    types.CategoryUnits,
		Keywords:    []string{"Unit"},
		Flags:       []string{"immediate"},
		Description: "Kills *Unit*.",
	},
	{
		ID:          "resurrect",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit"},
		Description: "Brings a dead unit back with full HP. It is not placed on the map.",
	},
	{
		ID:          "remove_all_units",
		Category:    types.CategoryUnits,
		Description: "Takes every unit off the map.",
	},
	{
		ID:          "remove_all_enemies",
		Category:    types.CategoryUnits,
		Description: "Takes every enemy unit off the map.",
	},
	{
		ID:       "add_group",
		Category: types.CategoryUnits,
		Keywords: []string{"Group"},
		Optional: []string{"StartingGroup", "EntryType", "Placement"},
		Description: `Places every unit of *Group*. Positions come from *StartingGroup* when
given, otherwise from *Group* itself. Expands into one add_unit per unit.`,
	},
	{
		ID:       "spawn_group",
		Category: types.CategoryUnits,
		Keywords: []string{"Group", "CardinalDirection", "StartingGroup"},
		Optional: []string{"MovementType", "Placement"},
		Flags:    []string{"no_block"},
		Description: `Brings *Group* in from the *CardinalDirection* edge of the map and walks
each unit to its *StartingGroup* position. Expands into an add_unit and a
move_unit per unit.`,
	},
	{
		ID:          "move_group",
		Alias:       "morph_group",
		Category:    types.CategoryUnits,
		Keywords:    []string{"Group", "StartingGroup"},
		Optional:    []string{"MovementType", "Placement"},
		Flags:       []string{"no_block"},
		Description: "Moves every unit of *Group* to its *StartingGroup* position. Expands into move_unit per unit.",
	},
	{
		ID:          "remove_group",
		Category:    types.CategoryUnits,
		Keywords:    []string{"Group"},
		Optional:    []string{"RemoveType"},
		Description: "Takes every unit of *Group* off the map. Expands into remove_unit per unit.",
	},
	{
		ID:       "give_item",
		Category: types.CategoryUnits,
		Keywords: []string{"GlobalUnitOrConvoy", "Item"},
		Flags:    []string{"no_banner", "no_choice", "droppable"},
		Description: `Gives a new *Item* to a unit, or to the convoy when the first argument is
convoy. A full inventory sends the item to the convoy.`,
	},
	{
		ID:          "give_items",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnitOrConvoy", "ItemList"},
		Flags:       []string{"no_banner", "droppable"},
		Description: "Gives each item of *ItemList*. Expands into one give_item per item.",
	},
	{
		ID:          "remove_item",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnitOrConvoy", "Item"},
		Flags:       []string{"no_banner"},
		Description: "Removes the first *Item* (nid or uid) the unit or convoy holds.",
	},
	{
		ID:          "give_exp",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "Experience"},
		Description: "Gives *Experience*; every 100 points is a level.",
	},
	{
		ID:          "give_skill",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "Skill"},
		Flags:       []string{"no_banner"},
		Description: "Gives *Skill* to the unit.",
	},
	{
		ID:          "remove_skill",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "Skill"},
		Flags:       []string{"no_banner"},
		Description: "Removes *Skill* from the unit.",
	},
	{
		ID:          "change_ai",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "AI"},
		Description: "Sets the unit's AI.",
	},
	{
		ID:          "change_team",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "Team"},
		Description: "Moves the unit to *Team* (player, enemy, enemy2 or other).",
	},
	{
		ID:          "change_portrait",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "PortraitNid"},
		Description: "Changes the portrait shown for the unit.",
	},
	{
		ID:          "change_stats",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "StatList"},
		Flags:       []string{"immediate"},
		Description: "Adds each change in *StatList* (e.g. STR,2,DEF,-1) to the unit's stats.",
	},
	{
		ID:          "set_current_hp",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "HP"},
		Description: "Sets current HP, clamped to 1..max HP.",
	},
	{
		ID:          "reset_unit",
		Alias:       "reset",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit"},
		Description: "Lets the unit act again this turn.",
	},
	{
		ID:          "add_tag",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "Tag"},
		Description: "Adds *Tag* to the unit.",
	},
	{
		ID:          "remove_tag",
		Category:    types.CategoryUnits,
		Keywords:    []string{"GlobalUnit", "Tag"},
		Description: "Removes *Tag* from the unit.",
	},
	{
		ID:       "interact_unit",
		Alias:    "interact",
		Category: types.CategoryUnits,
		Keywords: []string{"Unit", "Position"},
		Optional: []string{"CombatScript", "Ability"},
		Flags:    []string{"immediate"},
		Description: `Starts a scripted combat between *Unit* and whatever stands at *Position*.
*CombatScript* lists forced results (hit, miss, crit, end). Control passes
to the combat state until it finishes.`,
	},
}

var mapSchemas = []*types.CommandSchema{
	{
		ID:       "add_region",
		Category: types.CategoryMap,
		Keywords: []string{"Region", "Position", "Size", "RegionType"},
		Optional: []string{"String"},
		Flags:    []string{"only_once", "interrupt_move"},
		Description: `Adds a region covering *Size* (w,h) tiles from *Position*. *RegionType*
is normal, event, status, formation or time. *String* is the event
trigger or status the region carries.`,
	},
	{
		ID:          "region_condition",
		Category:    types.CategoryMap,
		Keywords:    []string{"Region", "Condition"},
		Description: "Replaces the condition under which an event region can be triggered.",
	},
	{
		ID:          "remove_region",
		Category:    types.CategoryMap,
		Keywords:    []string{"Region"},
		Description: "Removes a region.",
	},
	{
		ID:          "show_layer",
		Category:    types.CategoryMap,
		Keywords:    []string{"Layer"},
		Optional:    []string{"LayerTransition"},
		Description: "Shows the tilemap layer *Layer*.",
	},
	{
		ID:          "hide_layer",
		Category:    types.CategoryMap,
		Keywords:    []string{"Layer"},
		Optional:    []string{"LayerTransition"},
		Description: "Hides the tilemap layer *Layer*.",
	},
	{
		ID:          "change_tilemap",
		Category:    types.CategoryMap,
		Keywords:    []string{"Tilemap"},
		Flags:       []string{"reload"},
		Description: "Swaps in a different tilemap.",
	},
	{
		ID:       "unlock",
		Category: types.CategoryMap,
		Keywords: []string{"Unit"},
		Description: `Has *Unit* open the lock of the current region using the first item that
can unlock. Expands into find_unlock followed by spend_unlock.`,
	},
	{
		ID:          "find_unlock",
		Category:    types.CategoryHidden,
		Keywords:    []string{"Unit"},
		Description: "Selects the item *Unit* will use to unlock the current region.",
	},
	{
		ID:          "spend_unlock",
		Category:    types.CategoryHidden,
		Keywords:    []string{"Unit"},
		Description: "Uses the item chosen by find_unlock and removes the locked region.",
	},
	{
		ID:          "change_objective_simple",
		Category:    types.CategoryMap,
		Keywords:    []string{"String"},
		Verbatim:    []string{"String"},
		Description: "Sets the objective line shown on the map.",
	},
	{
		ID:          "change_objective_win",
		Category:    types.CategoryMap,
		Keywords:    []string{"String"},
		Verbatim:    []string{"String"},
		Description: "Sets the win condition text.",
	},
	{
		ID:          "change_objective_loss",
		Category:    types.CategoryMap,
		Keywords:    []string{"String"},
		Verbatim:    []string{"String"},
		Description: "Sets the loss condition text.",
	},
}

var miscSchemas = []*types.CommandSchema{
	{
		ID:          "add_talk",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Unit", "Unit2"},
		Description: "Lets *Unit* talk to *Unit2*.",
	},
	{
		ID:          "remove_talk",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Unit", "Unit2"},
		Description: "Removes the talk option between *Unit* and *Unit2*.",
	},
	{
		ID:          "add_lore",
		Alias:       "unlock_lore",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Lore"},
		Description: "Unlocks a codex entry.",
	},
	{
		ID:          "remove_lore",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Lore"},
		Description: "Locks a codex entry again.",
	},
	{
		ID:          "add_market_item",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Item"},
		Description: "Stocks *Item* in the base market.",
	},
	{
		ID:          "remove_market_item",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Item"},
		Description: "Removes *Item* from the base market.",
	},
	{
		ID:          "prep",
		Category:    types.CategoryMisc,
		Optional:    []string{"Bool", "Music"},
		Description: "Hands control to the preparations screen. *Bool* allows picking units (default true).",
	},
	{
		ID:          "base",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Panorama"},
		Optional:    []string{"Music"},
		Flags:       []string{"show_map"},
		Description: "Hands control to the base screen drawn over *Panorama*.",
	},
	{
		ID:          "shop",
		Category:    types.CategoryMisc,
		Keywords:    []string{"Unit", "ItemList"},
		Optional:    []string{"ShopFlavor"},
		Description: "Opens a shop selling *ItemList* to *Unit*; the event resumes when the shop closes.",
	},
}
