package commands

import (
	"fmt"
	"strconv"

	"eventide/internal/scripting/action"
	"eventide/internal/scripting/types"
)

// RegisterAudioCommands registers music and sound commands
func RegisterAudioCommands(vm CommandRegistry) {
	vm.RegisterCommand("music", cmdMusic)
	vm.RegisterCommand("music_clear", cmdMusicClear)
	vm.RegisterCommand("sound", cmdSound)
	vm.RegisterCommand("change_music", cmdChangeMusic)
}

func cmdMusic(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Audio().PlayMusic(args.Get("Music"), millis(args.Get("FadeIn"), DefaultMusicFade))
	return nil
}

func cmdMusicClear(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	vm.Audio().StopMusic(millis(args.Get("FadeOut"), DefaultMusicFade))
	return nil
}

func cmdSound(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	volume := 1.0
	if v := args.Get("Volume"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("volume %q: %w", v, err)
		}
		volume = min(max(f, 0), 1)
	}
	vm.Audio().PlaySound(args.Get("Sound"), volume)
	return nil
}

// cmdChangeMusic records the track for a phase; the host reads it back
// through the world settings when the phase starts
func cmdChangeMusic(vm types.VMInterface, cmd *types.Command, args *types.Args) error {
	if _, err := world(vm); err != nil {
		return err
	}
	key := types.SettingPhaseMusic + "." + args.Get("PhaseMusic")
	vm.Actions().Do(&action.SetSetting{Key: key, Value: args.Get("Music")})
	return nil
}
