package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconProfile    = "" // columns
	IconFullScreen = "" // expand
	IconTerminal   = "" // terminal
	IconCheck      = "" // check
	IconX          = "" // x
	IconWarning    = "" // warning
	IconDatabase   = "" // database
	IconFolder     = "" // folder
)
