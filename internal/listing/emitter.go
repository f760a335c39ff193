// Package listing renders installed and remote version lists.
package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/frederic-klein/yanm/internal/dist"
)

var (
	currentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	installedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	ltsStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
)

// Emitter writes version lists. Styling is applied only when enabled.
type Emitter struct {
	w      io.Writer
	styled bool
}

// NewEmitter creates a new list emitter.
func NewEmitter(w io.Writer, styled bool) *Emitter {
	return &Emitter{w: w, styled: styled}
}

// EmitInstalled writes installed versions, marking the current one with "*".
func (e *Emitter) EmitInstalled(versions []dist.Installed) error {
	if len(versions) == 0 {
		_, err := fmt.Fprintln(e.w, "No Node.js versions installed yet.")
		return err
	}

	for _, v := range versions {
		line := "  " + v.Version.String()
		if v.Current {
			line = e.render(currentStyle, "* "+v.Version.String())
		}
		if _, err := fmt.Fprintln(e.w, line); err != nil {
			return err
		}
	}
	return nil
}

// EmitRemote writes catalog releases oldest first so the newest ends up
// next to the prompt. installed holds canonical version strings present on
// disk and current names the active one.
func (e *Emitter) EmitRemote(releases []dist.Release, installed map[string]bool, current string) error {
	if len(releases) == 0 {
		_, err := fmt.Fprintln(e.w, "No matching releases.")
		return err
	}

	for i := len(releases) - 1; i >= 0; i-- {
		rel := releases[i]
		v := rel.Version.String()

		marker := "  "
		if v == current {
			marker = "* "
		}
		line := fmt.Sprintf("%s%-10s %-10s", marker, "v"+v, rel.Date)
		if rel.LTS {
			lts := "LTS"
			if rel.Codename != "" {
				lts += ": " + rel.Codename
			}
			line += " " + e.render(ltsStyle, fmt.Sprintf("%-16s", lts))
		} else {
			line += fmt.Sprintf(" %-16s", "")
		}

		switch {
		case v == current:
			line = e.render(currentStyle, line) + " " + e.render(mutedStyle, "(current)")
		case installed[v]:
			line = e.render(installedStyle, line) + " " + e.render(mutedStyle, "(installed)")
		}

		if _, err := fmt.Fprintln(e.w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) render(style lipgloss.Style, s string) string {
	if !e.styled {
		return s
	}
	return style.Render(s)
}
