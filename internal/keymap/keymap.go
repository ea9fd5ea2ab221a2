package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "queue"
}

// Bindings contains all key bindings, in help display order.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionEnqueuePrompt, []string{"a"}, "Add songs by id", "global"},
	{ActionPlayPrompt, []string{"o"}, "Play a song by id", "global"},
	{ActionCancel, []string{"esc"}, "Cancel drag", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNextTrack, []string{"n"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p"}, "Previous track", "playback"},
	{ActionSeekBack, []string{"left"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"right"}, "Seek +5s", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Toggle mute", "playback"},
	{ActionToggleShuffle, []string{"s"}, "Toggle shuffle", "playback"},
	{ActionCycleRepeat, []string{"r"}, "Cycle repeat mode", "playback"},
	{ActionToggleLike, []string{"l"}, "Like/unlike track", "playback"},

	// Queue
	{ActionMoveDown, []string{"j", "down"}, "Move down", "queue"},
	{ActionMoveUp, []string{"k", "up"}, "Move up", "queue"},
	{ActionJumpStart, []string{"g", "home"}, "First item", "queue"},
	{ActionJumpEnd, []string{"G", "end"}, "Last item", "queue"},
	{ActionPageDown, []string{"ctrl+d"}, "Half page down", "queue"},
	{ActionPageUp, []string{"ctrl+u"}, "Half page up", "queue"},
	{ActionSelect, []string{"enter"}, "Play entry", "queue"},
	{ActionDelete, []string{"d", "delete"}, "Remove entry", "queue"},
	{ActionMoveItemDown, []string{"J", "shift+down"}, "Move entry down", "queue"},
	{ActionMoveItemUp, []string{"K", "shift+up"}, "Move entry up", "queue"},
	{ActionClear, []string{"c"}, "Clear queue", "queue"},
	{ActionUndo, []string{"u"}, "Undo queue change", "queue"},
	{ActionRedo, []string{"U"}, "Redo queue change", "queue"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
