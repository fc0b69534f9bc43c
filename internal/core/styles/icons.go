package styles

// Toast status glyphs.
var (
	IconToastDefault     = "●"
	IconToastDestructive = "✖"
	IconToastDismissed   = "○"
)
