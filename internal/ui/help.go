package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"thermite/internal/tui/styles"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const helpTemplate = `# Thermite - Secure Data Destruction Tool

Overwrites a file several times with different patterns, strips its metadata,
renames it to a random name and deletes it, so that its contents cannot be
recovered from the disk.

## Security features

- %d overwrite passes by default, each applying zeros, ones, ` + "`0x55`" + `, ` + "`0xAA`" + `
  and a fresh cryptographically random pattern
- Every pattern is flushed to disk before the next one starts
- Immutable and append-only attributes are cleared where supported
- Size, permissions and timestamps are reset before deletion
- The file is renamed to a random 32-character name before it is unlinked
- Chunks are written in parallel by up to %d workers

## Usage

` + "```" + `
thermite [options] <file>
` + "```" + `

| Option | Description |
|---|---|
| ` + "`-p, --passes N`" + ` | Number of overwrite passes (default: %d, recommended: 3-7) |
| ` + "`-w, --workers N`" + ` | Maximum number of parallel writers |
| ` + "`--config PATH`" + ` | Read settings from PATH instead of the default config file |
| ` + "`--force`" + ` | Allow files inside system directories |
| ` + "`--plain`" + ` | Print progress lines instead of the interactive view |
| ` + "`--no-color`" + ` | Disable colored output |
| ` + "`--init-config`" + ` | Write the current settings to the config file and exit |
| ` + "`-h, --help`" + ` | Show this help |

Settings are read from ` + "`%s`" + ` when it exists.

## Examples

` + "```" + `
thermite file.txt              # Basic secure deletion
thermite -p 5 file.txt         # 5 overwrite passes
thermite --plain big.iso       # Progress lines, suitable for logs
thermite -p 7 --init-config    # Save 7 passes as the default
` + "```" + `

> **Note:** On SSDs and NVMe drives, due to wear leveling and TRIM, overwriting
> may not be effective in ensuring data irrecoverability.
`

// HelpMarkdown returns the detailed help as Markdown.
func HelpMarkdown(defaultPasses, maxWorkers int, configPath string) string {
	return fmt.Sprintf(helpTemplate, defaultPasses, maxWorkers, defaultPasses, configPath)
}

// RenderHelp renders markdown for the terminal. With plain set, no styling is applied.
func RenderHelp(markdown string, width int, plain bool) (string, error) {
	style := "notty"
	if !plain {
		style = detectGlamourStyle(200 * time.Millisecond)
	}
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}

// UsageText is the short usage shown when no file is given.
func UsageText(defaultPasses int) string {
	var b strings.Builder
	b.WriteString(styles.ErrorStyle.Render("Usage: thermite [options] <file>"))
	b.WriteString("\n\n")
	b.WriteString(styles.LabelStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s    Number of overwrite passes (default: %d)\n", styles.WarningStyle.Render("-p, --passes N"), defaultPasses)
	fmt.Fprintf(&b, "  %s        Show detailed help message\n", styles.WarningStyle.Render("-h, --help"))
	return b.String()
}

// detectGlamourStyle picks "dark" or "light" from the terminal background,
// honoring GLAMOUR_STYLE. Background detection queries the terminal and can
// hang, so it is bounded by timeout.
func detectGlamourStyle(timeout time.Duration) string {
	defaultStyle := "dark"

	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return defaultStyle
	}
}
