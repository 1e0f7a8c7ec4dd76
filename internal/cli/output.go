package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/open-agent-spec/oas/internal/branding"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
	warnPanelStyle = panelStyle.BorderForeground(lipgloss.Color("3"))
)

// banner renders the product panel shown by the bare root command.
func banner() string {
	body := titleStyle.Render(branding.DisplayName()) + "\n" +
		mutedStyle.Render(branding.Description())
	if buildVersion != "" {
		body += "\n" + mutedStyle.Render("version "+buildVersion)
	}
	return panelStyle.Render(body)
}

// panel renders a titled box of key/value lines in the given style.
func panel(style lipgloss.Style, title string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n%-*s  %s", width+1, r[0]+":", r[1])
	}
	return style.Render(b.String())
}

func printList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", heading)
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("Warning:"), msg)
	}
}
