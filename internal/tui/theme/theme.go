package theme

import "github.com/charmbracelet/lipgloss"

type Palette struct {
	Base    lipgloss.Color
	Accent  lipgloss.Color
	Accent2 lipgloss.Color
	Teal    lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	SubText lipgloss.Color
	Dim     lipgloss.Color
	Overlay lipgloss.Color
}

var palettes = map[string]Palette{
	"catppuccin-mocha": {
		Base:    lipgloss.Color("#11111b"),
		Accent:  lipgloss.Color("#cba6f7"),
		Accent2: lipgloss.Color("#89b4fa"),
		Teal:    lipgloss.Color("#94e2d5"),
		Success: lipgloss.Color("#a6e3a1"),
		Error:   lipgloss.Color("#f38ba8"),
		SubText: lipgloss.Color("#a6adc8"),
		Dim:     lipgloss.Color("#6c7086"),
		Overlay: lipgloss.Color("#45475a"),
	},
	"catppuccin-latte": {
		Base:    lipgloss.Color("#eff1f5"),
		Accent:  lipgloss.Color("#8839ef"),
		Accent2: lipgloss.Color("#1e66f5"),
		Teal:    lipgloss.Color("#179299"),
		Success: lipgloss.Color("#40a02b"),
		Error:   lipgloss.Color("#d20f39"),
		SubText: lipgloss.Color("#6c6f85"),
		Dim:     lipgloss.Color("#9ca0b0"),
		Overlay: lipgloss.Color("#bcc0cc"),
	},
}

const DefaultName = "catppuccin-mocha"

var (
	TitleStyle       lipgloss.Style
	DimStyle         lipgloss.Style
	ErrorStyle       lipgloss.Style
	InfoStyle        lipgloss.Style
	KeyStyle         lipgloss.Style
	SeparatorStyle   lipgloss.Style
	WindowStyle      lipgloss.Style
	ModalStyle       lipgloss.Style
	TabStyle         lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	FocusedTabStyle  lipgloss.Style
	CloseTabStyle    lipgloss.Style
	StripMarkerStyle lipgloss.Style
	IconStyle        lipgloss.Style
)

func init() {
	Apply(DefaultName)
}

// Apply switches to the named palette. Unknown names keep the default and
// return false.
func Apply(name string) bool {
	p, ok := palettes[name]
	if !ok {
		p = palettes[DefaultName]
	}
	build(p)
	return ok
}

func Names() []string {
	return []string{"catppuccin-mocha", "catppuccin-latte"}
}

func build(p Palette) {
	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	DimStyle = lipgloss.NewStyle().
		Foreground(p.Dim)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
	InfoStyle = lipgloss.NewStyle().
		Foreground(p.Teal)
	KeyStyle = lipgloss.NewStyle().
		Foreground(p.Teal).
		Bold(true)
	SeparatorStyle = lipgloss.NewStyle().
		Foreground(p.Overlay)
	WindowStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent)
	ModalStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Accent)
	TabStyle = lipgloss.NewStyle().
		Foreground(p.SubText).
		Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(p.Base).
		Background(p.Accent2).
		Bold(true).
		Padding(0, 1)
	FocusedTabStyle = lipgloss.NewStyle().
		Foreground(p.Base).
		Background(p.Accent).
		Bold(true).
		Padding(0, 1)
	CloseTabStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Padding(0, 1)
	StripMarkerStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	IconStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Success)
}
