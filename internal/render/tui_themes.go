package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatbtc/internal/models"
)

// KindStyle is the fixed look of one message kind
type KindStyle struct {
	Label      string
	Background lipgloss.Color
	LabelColor lipgloss.Color
	// BodyColor is empty when the body uses the theme's text color
	BodyColor  lipgloss.Color
	AlignRight bool
}

// TUITheme defines the color scheme for the chat view
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// Message blocks
	Answer  KindStyle
	User    KindStyle
	Failure KindStyle
}

// StyleFor returns the block style of a message kind
func (t TUITheme) StyleFor(kind models.Kind) KindStyle {
	switch kind {
	case models.KindUser:
		return t.User
	case models.KindError:
		return t.Failure
	default:
		return t.Answer
	}
}

const userLabel = "You"

// Built-in TUI themes
var (
	// BitcoinTheme uses slate gray blocks with orange and purple labels
	BitcoinTheme = TUITheme{
		Name:        "bitcoin",
		Description: "Bitcoin - Slate blocks with orange accents",

		Background: lipgloss.Color("#171923"),
		Border:     lipgloss.Color("#2D3748"),

		Primary: lipgloss.Color("#F6AD55"),
		Accent:  lipgloss.Color("#9F7AEA"),
		Error:   lipgloss.Color("#E53E3E"),

		Text:     lipgloss.Color("#EDF2F7"),
		TextDim:  lipgloss.Color("#A0AEC0"),
		TextMute: lipgloss.Color("#4A5568"),

		Answer: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#4A5568"), // gray.600
			LabelColor: lipgloss.Color("#F6AD55"), // orange.400
		},
		User: KindStyle{
			Label:      userLabel,
			Background: lipgloss.Color("#1A202C"), // gray.800
			LabelColor: lipgloss.Color("#9F7AEA"), // purple.400
			AlignRight: true,
		},
		Failure: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#4A5568"), // gray.600
			LabelColor: lipgloss.Color("#E53E3E"), // red.500
			BodyColor:  lipgloss.Color("#FC8181"), // red.400
		},
	}

	// TokyoNightTheme is a dark theme based on the Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Border:     lipgloss.Color("#414868"),

		Primary: lipgloss.Color("#7aa2f7"),
		Accent:  lipgloss.Color("#bb9af7"),
		Error:   lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		Answer: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#24283b"),
			LabelColor: lipgloss.Color("#ff9e64"),
		},
		User: KindStyle{
			Label:      userLabel,
			Background: lipgloss.Color("#16161e"),
			LabelColor: lipgloss.Color("#bb9af7"),
			AlignRight: true,
		},
		Failure: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#24283b"),
			LabelColor: lipgloss.Color("#f7768e"),
			BodyColor:  lipgloss.Color("#db4b4b"),
		},
	}

	// CatppuccinMochaTheme is based on Catppuccin Mocha palette
	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Background: lipgloss.Color("#1e1e2e"),
		Border:     lipgloss.Color("#45475a"),

		Primary: lipgloss.Color("#fab387"), // Peach
		Accent:  lipgloss.Color("#cba6f7"), // Mauve
		Error:   lipgloss.Color("#f38ba8"), // Red

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),

		Answer: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#313244"),
			LabelColor: lipgloss.Color("#fab387"),
		},
		User: KindStyle{
			Label:      userLabel,
			Background: lipgloss.Color("#181825"),
			LabelColor: lipgloss.Color("#cba6f7"),
			AlignRight: true,
		},
		Failure: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#313244"),
			LabelColor: lipgloss.Color("#f38ba8"),
			BodyColor:  lipgloss.Color("#eba0ac"),
		},
	}

	// NordTheme is based on the Nord color palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",

		Background: lipgloss.Color("#2e3440"),
		Border:     lipgloss.Color("#4c566a"),

		Primary: lipgloss.Color("#d08770"), // Aurora orange
		Accent:  lipgloss.Color("#b48ead"), // Aurora purple
		Error:   lipgloss.Color("#bf616a"), // Aurora red

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),

		Answer: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#434c5e"),
			LabelColor: lipgloss.Color("#d08770"),
		},
		User: KindStyle{
			Label:      userLabel,
			Background: lipgloss.Color("#3b4252"),
			LabelColor: lipgloss.Color("#b48ead"),
			AlignRight: true,
		},
		Failure: KindStyle{
			Label:      models.AppName,
			Background: lipgloss.Color("#434c5e"),
			LabelColor: lipgloss.Color("#bf616a"),
			BodyColor:  lipgloss.Color("#d8a0a6"),
		},
	}
)

// currentTUITheme holds the currently active TUI theme
var currentTUITheme = BitcoinTheme

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
		return true
	}
	return false
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		BitcoinTheme,
		TokyoNightTheme,
		CatppuccinMochaTheme,
		NordTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
