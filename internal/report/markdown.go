// Package report turns the analysis findings into presentable documents: a
// parsed form of the restricted markdown summary and an HTML rendering of it.
package report

import (
	"regexp"
	"strings"
)

// BlockKind identifies one element of the parsed document.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockListItem
	BlockRule
	BlockTable
)

// Span is a run of inline text, literal or emphasized.
type Span struct {
	Text string
	Bold bool
}

// Block is one rendered element. Paragraphs and list items carry inline
// spans; tables carry a header row and body rows of inline-formatted cells.
type Block struct {
	Kind   BlockKind
	Spans  []Span
	Header [][]Span
	Rows   [][][]Span
}

// Document is the parsed restricted-markdown summary, blocks in source order.
type Document struct {
	Blocks []Block
}

// tableSeparator matches the row under a table header: trimmed content of the
// form | followed by dashes, pipes, colons and spaces, ending in |.
var tableSeparator = regexp.MustCompile(`^\|[-|: ]+\|$`)

// Parse interprets the restricted markdown grammar in a single top-to-bottom
// pass over the lines: horizontal rules, list items, pipe tables (detected
// with one line of lookahead), paragraphs. Blank lines produce nothing.
// A |-prefixed line without a separator underneath falls back to a paragraph.
func Parse(markdown string) Document {
	if markdown == "" {
		return Document{}
	}

	lines := strings.Split(markdown, "\n")
	var blocks []Block

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.HasPrefix(line, "---") {
			blocks = append(blocks, Block{Kind: BlockRule})
			continue
		}

		if strings.HasPrefix(line, "- ") {
			blocks = append(blocks, Block{Kind: BlockListItem, Spans: parseInline(line[2:])})
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), "|") && i+1 < len(lines) &&
			tableSeparator.MatchString(strings.TrimSpace(lines[i+1])) {
			table, next := scanTable(lines, i)
			blocks = append(blocks, table)
			i = next - 1
			continue
		}

		if strings.TrimSpace(line) != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: parseInline(line)})
		}
	}

	return Document{Blocks: blocks}
}

// scanTable consumes a table starting at the header line i: the separator
// line is swallowed, then body rows are taken while they keep starting with
// a pipe. It returns the table and the index of the first unconsumed line.
func scanTable(lines []string, i int) (Block, int) {
	table := Block{Kind: BlockTable, Header: splitCells(lines[i])}

	j := i + 2
	for j < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[j]), "|") {
		table.Rows = append(table.Rows, splitCells(lines[j]))
		j++
	}
	return table, j
}

// splitCells splits a table line on pipes, discarding the outer empty
// segments from the leading and trailing pipe, and trims each cell before
// inline formatting.
func splitCells(line string) [][]Span {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([][]Span, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, parseInline(strings.TrimSpace(p)))
	}
	return cells
}

// parseInline recognizes paired **...** emphasis and nothing else. Unpaired
// markers and every other construct pass through verbatim.
func parseInline(text string) []Span {
	var spans []Span
	for text != "" {
		open := strings.Index(text, "**")
		if open < 0 {
			spans = append(spans, Span{Text: text})
			break
		}
		close := strings.Index(text[open+2:], "**")
		if close < 0 {
			spans = append(spans, Span{Text: text})
			break
		}

		if open > 0 {
			spans = append(spans, Span{Text: text[:open]})
		}
		spans = append(spans, Span{Text: text[open+2 : open+2+close], Bold: true})
		text = text[open+2+close+2:]
	}
	return spans
}

// PlainText flattens spans back to their unformatted text.
func PlainText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
