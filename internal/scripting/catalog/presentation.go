package catalog

import "eventide/internal/scripting/types"

var portraitSchemas = []*types.CommandSchema{
	{
		ID:       "add_portrait",
		Alias:    "u",
		Category: types.CategoryPortrait,
		Keywords: []string{"Portrait", "ScreenPosition"},
		Optional: []string{"Slide", "ExpressionList"},
		Flags:    []string{"mirror", "low_priority", "immediate", "no_block"},
		Description: `Adds *Portrait* at *ScreenPosition* (Left, Right, FarLeft, ... or an x
offset). *Slide* makes it slide in from the given side.

Example: add_portrait;Eirika;Left;;Smile`,
	},
	{
		ID:       "multi_add_portrait",
		Alias:    "uu",
		Category: types.CategoryPortrait,
		Keywords: []string{"Portrait", "ScreenPosition", "Portrait2", "ScreenPosition2"},
		Optional: []string{"Portrait3", "ScreenPosition3", "Portrait4", "ScreenPosition4"},
		Description: `Adds up to four portraits at once. Expands into one add_portrait per
portrait; only the last one blocks.`,
	},
	{
		ID:          "remove_portrait",
		Alias:       "r",
		Category:    types.CategoryPortrait,
		Keywords:    []string{"Portrait"},
		Optional:    []string{"Speed"},
		Flags:       []string{"immediate", "no_block"},
		Description: "Removes *Portrait* from the screen.",
	},
	{
		ID:          "multi_remove_portrait",
		Alias:       "rr",
		Category:    types.CategoryPortrait,
		Keywords:    []string{"Portrait", "Portrait2"},
		Optional:    []string{"Portrait3", "Portrait4"},
		Description: "Removes up to four portraits. Expands into one remove_portrait per portrait.",
	},
	{
		ID:          "remove_all_portraits",
		Alias:       "rrr",
		Category:    types.CategoryPortrait,
		Description: "Removes every portrait on screen.",
	},
	{
		ID:          "move_portrait",
		Category:    types.CategoryPortrait,
		Keywords:    []string{"Portrait", "ScreenPosition"},
		Optional:    []string{"Speed"},
		Flags:       []string{"immediate", "no_block"},
		Description: "Slides *Portrait* to *ScreenPosition*.",
	},
	{
		ID:          "bop_portrait",
		Alias:       "bop",
		Category:    types.CategoryPortrait,
		Keywords:    []string{"Portrait"},
		Optional:    []string{"NumBops"},
		Description: "Bounces *Portrait* up and down *NumBops* times (default 2). Skipped while fast-forwarding.",
	},
	{
		ID:          "expression",
		Alias:       "e",
		Category:    types.CategoryPortrait,
		Keywords:    []string{"Portrait", "ExpressionList"},
		Description: "Sets the facial expressions of *Portrait*, e.g. Smile,CloseEyes.",
	},
	{
		ID:          "mirror_portrait",
		Alias:       "mirror",
		Category:    types.CategoryPortrait,
		Keywords:    []string{"Portrait"},
		Optional:    []string{"Speed"},
		Description: "Flips *Portrait* horizontally.",
	},
}

var dialogueSchemas = []*types.CommandSchema{
	{
		ID:       "speak",
		Alias:    "s",
		Category: types.CategoryDialogue,
		Keywords: []string{"Speaker", "Text"},
		Optional: []string{"ScreenPosition", "Width", "DialogVariant"},
		Flags:    []string{"low_priority", "hold", "no_popup", "fit", "no_block"},
		Verbatim: []string{"Text"},
		Description: `Opens a dialogue box for *Speaker* containing *Text*. The event waits until
the text has been read unless no_block is given.

Text may contain {eval:expression}, {var:name}, {unit} and {unit2}.

Example: speak;Seth;Princess, we must hurry.`,
	},
	{
		ID:          "narrate",
		Alias:       "n",
		Category:    types.CategoryDialogue,
		Keywords:    []string{"Speaker", "Text"},
		Flags:       []string{"hold", "no_block"},
		Verbatim:    []string{"Text"},
		Description: "Like speak, but in the narration box along the bottom of the screen.",
	},
	{
		ID:          "unhold",
		Category:    types.CategoryDialogue,
		Keywords:    []string{"Nid"},
		Description: "Closes a dialogue box that was opened with the hold flag.",
	},
	{
		ID:          "alert",
		Category:    types.CategoryDialogue,
		Keywords:    []string{"String"},
		Optional:    []string{"Sound", "Icon"},
		Verbatim:    []string{"String"},
		Description: "Shows a banner with *String* until confirmed.",
	},
	{
		ID:       "choice",
		Category: types.CategoryDialogue,
		Keywords: []string{"Nid", "Title", "Choices"},
		Optional: []string{"RowWidth"},
		Flags:    []string{"persist"},
		Description: `Asks the player to pick one of *Choices* (comma separated). The host stores
the pick in the game variable *Nid*; the event resumes once the menu closes.`,
	},
	{
		ID:          "text_entry",
		Category:    types.CategoryDialogue,
		Keywords:    []string{"Nid", "String"},
		Optional:    []string{"Limit"},
		Description: "Asks the player to type up to *Limit* characters, stored in the game variable *Nid*.",
	},
}

var sceneSchemas = []*types.CommandSchema{
	{
		ID:       "transition",
		Alias:    "t",
		Category: types.CategoryScene,
		Optional: []string{"Direction", "Speed", "Color3"},
		Description: `Fades the screen *Direction* (open or close) at *Speed* in milliseconds,
through *Color3* (r,g,b). Skipped while fast-forwarding.`,
	},
	{
		ID:          "change_background",
		Alias:       "b",
		Category:    types.CategoryScene,
		Optional:    []string{"Panorama"},
		Flags:       []string{"keep_portraits"},
		Description: "Shows *Panorama* behind dialogue; with no argument the map is shown again.",
	},
	{
		ID:          "location_card",
		Category:    types.CategoryScene,
		Keywords:    []string{"String"},
		Verbatim:    []string{"String"},
		Description: "Shows a location card in the top left. Skipped while fast-forwarding.",
	},
	{
		ID:          "credits",
		Category:    types.CategoryScene,
		Keywords:    []string{"Role", "Credits"},
		Flags:       []string{"wait", "center", "no_split"},
		Description: "Scrolls a credits entry for *Role* listing *Credits*. Skipped while fast-forwarding.",
	},
	{
		ID:          "ending",
		Category:    types.CategoryScene,
		Keywords:    []string{"Portrait", "Title", "Text"},
		Verbatim:    []string{"Text"},
		Description: "Shows an epilogue card for *Portrait*. Skipped while fast-forwarding.",
	},
	{
		ID:          "chapter_title",
		Category:    types.CategoryScene,
		Optional:    []string{"Music", "String"},
		Description: "Hands control to the chapter title screen; the event resumes when it closes.",
	},
	{
		ID:          "screen_shake",
		Category:    types.CategoryScene,
		Keywords:    []string{"Time"},
		Optional:    []string{"ShakeType"},
		Flags:       []string{"no_block"},
		Description: "Shakes the screen for *Time* milliseconds.",
	},
	{
		ID:          "set_cursor",
		Category:    types.CategoryCursor,
		Keywords:    []string{"Position"},
		Flags:       []string{"immediate"},
		Description: "Moves the map cursor to *Position*.",
	},
	{
		ID:          "center_cursor",
		Category:    types.CategoryCursor,
		Keywords:    []string{"Position"},
		Flags:       []string{"immediate"},
		Description: "Moves the cursor to *Position* and centers the camera on it.",
	},
	{
		ID:          "disp_cursor",
		Category:    types.CategoryCursor,
		Keywords:    []string{"Bool"},
		Description: "Shows or hides the map cursor.",
	},
	{
		ID:          "flicker_cursor",
		Alias:       "highlight",
		Category:    types.CategoryCursor,
		Keywords:    []string{"Position"},
		Description: "Flashes the cursor on *Position* to draw attention to it.",
	},
}
