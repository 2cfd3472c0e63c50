package views

import (
	"github.com/nicobailon/debugdeck/internal/tui/theme"
)

func RenderModal(title, body string) string {
	header := theme.TitleStyle.Render("▲ " + title)
	divider := theme.SeparatorStyle.Render("────────────────────────")
	return theme.ModalStyle.Render(header + "\n" + divider + "\n\n" + body)
}

// RenderIcon is the collapsed form of the window: a single button showing the
// frame rate.
func RenderIcon(label string) string {
	return theme.IconStyle.Render(label) + "\n" + theme.DimStyle.Render("enter to expand · q to quit")
}
