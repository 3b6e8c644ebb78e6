package ui

import (
	"strings"

	"thermite/internal/tui/styles"
)

var bannerLines = []string{
	"┏┳┓┓┏┏┓┳┓┳┳┓┳┏┳┓┏┓",
	" ┃ ┣┫┣ ┣┫┃┃┃┃ ┃ ┣ ",
	" ┻ ┛┗┗┛┛┗┛ ┗┻ ┻ ┗┛",
}

const tagline = "  [ Secure Data Destruction Tool ]"

// Banner returns the thermite logo and tagline.
func Banner() string {
	var b strings.Builder
	b.WriteString("\n")
	for i, line := range bannerLines {
		style := styles.BannerFireStyle
		if i%2 == 1 {
			style = styles.BannerEmberStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(styles.BannerEmberStyle.Render(tagline))
	b.WriteString("\n")
	return b.String()
}
