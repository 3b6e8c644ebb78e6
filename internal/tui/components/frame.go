package components

import (
	"strings"

	"thermite/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const (
	frameIndent   = 2
	frameMinWidth = 40
	frameMaxWidth = 80
)

// Frame surrounds the progress body of the shred view: a heading, the path
// being destroyed, and a footer holding either the key help or the failure
// that ended the run.
type Frame struct {
	heading string
	target  string
	keys    string
	failure error
	width   int
}

func NewFrame(heading string) Frame {
	return Frame{heading: heading}
}

// Resize tracks the terminal width.
func (f Frame) Resize(msg tea.WindowSizeMsg) Frame {
	f.width = msg.Width
	return f
}

func (f Frame) WithTarget(path string) Frame {
	f.target = path
	return f
}

// WithKeys sets the key help shown in the footer. It is hidden once a
// failure is recorded.
func (f Frame) WithKeys(help string) Frame {
	f.keys = help
	return f
}

// Fail records the error that ended the run. The first one is kept.
func (f Frame) Fail(err error) Frame {
	if f.failure == nil {
		f.failure = err
	}
	return f
}

func (f Frame) Failure() error {
	return f.failure
}

// BodyWidth is the width available to the body, between frameMinWidth and
// frameMaxWidth.
func (f Frame) BodyWidth() int {
	w := f.width - 2*frameIndent
	switch {
	case w > frameMaxWidth:
		return frameMaxWidth
	case w < frameMinWidth:
		return frameMinWidth
	}
	return w
}

// Render frames body. The body is not rewrapped since it carries the
// rendered progress bar.
func (f Frame) Render(body string) string {
	width := f.BodyWidth()
	parts := make([]string, 0, 5)

	if f.heading != "" {
		parts = append(parts, styles.TitleStyle.Render(f.heading))
	}
	if f.target != "" {
		// Paths rarely contain spaces, so hard-wrap whatever word wrapping leaves.
		target := wrap.String(wordwrap.String("Destroying "+f.target, width), width)
		parts = append(parts, styles.SubtitleStyle.Render(target))
	}
	if body != "" {
		parts = append(parts, body)
	}
	switch {
	case f.failure != nil:
		parts = append(parts, styles.ErrorStyle.Render(wordwrap.String("Error: "+f.failure.Error(), width)))
	case f.keys != "":
		parts = append(parts, styles.HelpStyle.Render(f.keys))
	}

	return "\n" + indent.String(strings.Join(parts, "\n\n"), frameIndent) + "\n"
}
