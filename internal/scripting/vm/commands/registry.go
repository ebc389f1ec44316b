package commands

// RegisterAllCommands registers all command groups with the dispatch table
func RegisterAllCommands(vm CommandRegistry) {
	RegisterFlowCommands(vm)
	RegisterAudioCommands(vm)
	RegisterPortraitCommands(vm)
	RegisterDialogueCommands(vm)
	RegisterSceneCommands(vm)
	RegisterVariableCommands(vm)
	RegisterUnitCommands(vm)
	RegisterGroupCommands(vm)
	RegisterItemCommands(vm)
	RegisterMapCommands(vm)
	RegisterMiscCommands(vm)
}
