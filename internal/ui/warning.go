package ui

import (
	"thermite/internal/tui/styles"

	"github.com/muesli/reflow/wordwrap"
)

const ssdWarning = "On SSDs and NVMe drives, due to wear leveling and TRIM, " +
	"overwriting may not be effective in ensuring data irrecoverability. " +
	"Copy-on-write and journaling filesystems, snapshots and backups can also keep old copies of the data."

// SSDWarning returns the storage media warning wrapped to width.
func SSDWarning(width int) string {
	if width <= 0 || width > 72 {
		width = 72
	}
	// Leave room for the box border and padding.
	body := wordwrap.String(ssdWarning, width-4)
	title := styles.ErrorStyle.Render("IMPORTANT WARNING:")
	return styles.WarningBoxStyle.Render(title + "\n" + styles.WarningStyle.Render(body))
}
