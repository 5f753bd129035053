package models

// CardColors is the palette offered for entry cards (ARGB).
var CardColors = []uint32{
	0xFFF5F5F5,
	0xFFFFF9C4,
	0xFFE1F5FE,
	0xFFE8F5E9,
	0xFFFCE4EC,
}

// Preferences are app-level display settings plus the legacy logged-in flag.
type Preferences struct {
	DarkMode  bool
	LargeFont bool
	LoggedIn  bool
	CardColor uint32
}

func DefaultPreferences() Preferences {
	return Preferences{CardColor: CardColors[0]}
}

// IsPaletteColor reports whether c is one of CardColors.
func IsPaletteColor(c uint32) bool {
	for _, p := range CardColors {
		if p == c {
			return true
		}
	}
	return false
}
