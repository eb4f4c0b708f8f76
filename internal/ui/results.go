package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/narrate"
)

// renderResults lays out the normalized view of a payload: narrative
// summary, trailing series points, source chips, and report links.
func renderResults(p *api.ResponsePayload, detail []api.SeriesPoint, width int) string {
	if p == nil {
		return HelpStyle.Render("Type a question and press enter to search.")
	}

	var sb strings.Builder

	// An empty summary means there is nothing narratable; hide the
	// paragraph rather than render a blank block.
	if summary := narrate.Summary(p); summary != "" {
		sb.WriteString(SummaryText.Width(width).Render(summary))
		sb.WriteString("\n")
	}

	if len(detail) > 0 {
		sb.WriteString(SeriesLabel.Render("Recent points"))
		sb.WriteString("\n")
		for _, pt := range detail {
			sb.WriteString(SeriesRow.Render(pt.Date + "  " + narrate.FormatNumber(pt.Value)))
			sb.WriteString("\n")
		}
	}

	if len(p.Sources) > 0 {
		chips := make([]string, 0, len(p.Sources))
		for _, s := range p.Sources {
			if s.Name == "" {
				continue
			}
			chips = append(chips, SourceChip.Render(s.Name))
		}
		if len(chips) > 0 {
			sb.WriteString("\n")
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
			sb.WriteString("\n")
		}
	}

	if p.ReportURL != "" {
		sb.WriteString(HelpStyle.Render("Report: " + p.ReportURL))
		sb.WriteString("\n")
	}
	if p.PDFURL != "" {
		sb.WriteString(HelpStyle.Render("PDF: " + p.PDFURL))
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return HelpStyle.Render("No summary available for this result.")
	}
	return sb.String()
}
