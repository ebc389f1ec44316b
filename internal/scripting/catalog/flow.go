package catalog

import "eventide/internal/scripting/types"

var flowSchemas = []*types.CommandSchema{
	{
		ID:          types.CommentID,
		Category:    types.CategoryHidden,
		Description: "A full line beginning with # is kept as a comment and never runs.",
	},
	{
		ID:       "if",
		Category: types.CategoryFlow,
		Keywords: []string{"Condition"},
		Description: `Opens a conditional block. The commands up to the matching elif, else
or end only run when *Condition* evaluates true.

Every if must be closed by an end.`,
	},
	{
		ID:       "elif",
		Category: types.CategoryFlow,
		Keywords: []string{"Condition"},
		Description: `Alternate branch of the enclosing if. Evaluated only when no earlier
branch at the same level has run.`,
	},
	{
		ID:          "else",
		Category:    types.CategoryFlow,
		Description: "Runs its block when no earlier branch at the same level has run.",
	},
	{
		ID:          "end",
		Category:    types.CategoryFlow,
		Description: "Closes the innermost if block.",
	},
	{
		ID:          "break",
		Category:    types.CategoryFlow,
		Description: "Immediately ends the current event.",
	},
	{
		ID:       "wait",
		Category: types.CategoryFlow,
		Keywords: []string{"Time"},
		Description: `Pauses the event for *Time* milliseconds. Skipped while fast-forwarding.

Example: wait;500`,
	},
	{
		ID:       "end_skip",
		Category: types.CategoryFlow,
		Description: `Stops a fast-forward started by the player so the rest of the event plays
normally. Has no effect on a super skip.`,
	},
	{
		ID:       "trigger_script",
		Category: types.CategoryFlow,
		Keywords: []string{"Event"},
		Optional: []string{"Unit", "Unit2"},
		Description: `Queues the event prefab *Event*. It starts once the current event is
complete, with *Unit* and *Unit2* as its context when given.`,
	},
}

var audioSchemas = []*types.CommandSchema{
	{
		ID:          "music",
		Alias:       "mus",
		Category:    types.CategoryAudio,
		Keywords:    []string{"Music"},
		Optional:    []string{"FadeIn"},
		Description: "Fades in *Music* over *FadeIn* milliseconds, replacing the current track.",
	},
	{
		ID:          "music_clear",
		Category:    types.CategoryAudio,
		Optional:    []string{"FadeOut"},
		Description: "Fades out the current track over *FadeOut* milliseconds.",
	},
	{
		ID:          "sound",
		Alias:       "snd",
		Category:    types.CategoryAudio,
		Keywords:    []string{"Sound"},
		Optional:    []string{"Volume"},
		Description: "Plays the sound effect *Sound* once at *Volume* (0.0 to 1.0). Skipped while fast-forwarding.",
	},
	{
		ID:          "change_music",
		Category:    types.CategoryAudio,
		Keywords:    []string{"PhaseMusic", "Music"},
		Description: "Sets the track played during *PhaseMusic* (player_phase, enemy_phase, ...) to *Music*.",
	},
}
