package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// SVG renders cmds as a standalone SVG document.
func SVG(cmds []Command, width, height int, background colorful.Color) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background.Clamped().Hex()))

	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case Circle:
			if cmd.Filled {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cmd.Center.X, cmd.Center.Y, cmd.Radius, cmd.Color.Clamped().Hex()))
			} else {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="%.1f"/>
`, cmd.Center.X, cmd.Center.Y, cmd.Radius, cmd.Color.Clamped().Hex(), cmd.Width))
			}
		case Polyline:
			if len(cmd.Points) < 2 {
				continue
			}
			dash := ""
			if cmd.Dotted {
				dash = ` stroke-dasharray="1 2"`
			}
			sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="%.1f"%s points="`,
				cmd.Color.Clamped().Hex(), cmd.Width, dash))
			for i, p := range cmd.Points {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
			}
			sb.WriteString("\"/>\n")
		case Text:
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" dominant-baseline="middle" fill="%s">%s</text>
`, cmd.Pos.X, cmd.Pos.Y, cmd.Size, cmd.Color.Clamped().Hex(), html.EscapeString(cmd.Text)))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
