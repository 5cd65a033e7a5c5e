package report

import (
	"html"
	"strings"

	"github.com/traceaos/income-analysis-agent/internal/models"
)

// RenderHTML renders a parsed document as an HTML fragment for the on-screen
// report. All text content is escaped; only the restricted grammar's own
// structure becomes markup.
func RenderHTML(doc Document) string {
	var sb strings.Builder

	inList := false
	closeList := func() {
		if inList {
			sb.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockRule:
			closeList()
			sb.WriteString("<hr>\n")
		case BlockListItem:
			if !inList {
				sb.WriteString("<ul>\n")
				inList = true
			}
			sb.WriteString("<li>")
			writeSpans(&sb, b.Spans)
			sb.WriteString("</li>\n")
		case BlockTable:
			closeList()
			writeTable(&sb, b)
		default:
			closeList()
			sb.WriteString("<p>")
			writeSpans(&sb, b.Spans)
			sb.WriteString("</p>\n")
		}
	}
	closeList()

	return sb.String()
}

// RenderRiskTableHTML renders the risk rows as the standalone assessment
// table shown under the findings. Zero rows produce no output at all.
func RenderRiskTableHTML(risk []models.RiskFactor) string {
	if len(risk) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<table class=\"risk\">\n<thead><tr><th>Topic</th><th>Result</th><th>Notes</th></tr></thead>\n<tbody>\n")
	for _, r := range risk {
		notes := r.Notes
		if notes == "" {
			notes = "N/A"
		}
		sb.WriteString("<tr><td>")
		sb.WriteString(html.EscapeString(r.Topic))
		sb.WriteString("</td><td>")
		sb.WriteString(html.EscapeString(r.Result))
		sb.WriteString("</td><td>")
		sb.WriteString(html.EscapeString(notes))
		sb.WriteString("</td></tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
	return sb.String()
}

func writeSpans(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		if s.Bold {
			sb.WriteString("<strong>")
			sb.WriteString(html.EscapeString(s.Text))
			sb.WriteString("</strong>")
		} else {
			sb.WriteString(html.EscapeString(s.Text))
		}
	}
}

func writeTable(sb *strings.Builder, b Block) {
	sb.WriteString("<table>\n<thead><tr>")
	for _, cell := range b.Header {
		sb.WriteString("<th>")
		writeSpans(sb, cell)
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range b.Rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>")
			writeSpans(sb, cell)
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
}
