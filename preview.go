package csvify

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls preview table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderMarkdown                   // GitHub-flavored Markdown table
)

// PreviewOptions controls [Converter.Preview].
type PreviewOptions struct {
	// Limit is the number of data rows shown. Zero or less shows all rows.
	Limit int
	// MaxWidth truncates wider cells with "...". Zero means no limit.
	MaxWidth int
	Border   BorderStyle
}

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
}

var (
	controlReplacer  = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
	markdownReplacer = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`, "|", `\|`)
)

// Preview renders the header and the first rows of data as an aligned text
// table for terminals. Cells hold the same text the CSV output would, with
// line breaks and tabs shown as escapes. Numeric cells are right-aligned.
// When rows are left out, a "shown of total" caption follows the table.
func (c *Converter) Preview(w io.Writer, data any, p PreviewOptions) error {
	t, err := c.prepare(data)
	if err != nil {
		return err
	}
	header := c.headerRow(t.headers)
	var rows [][]string
	for cells, err := range c.rows(context.Background(), t) {
		if err != nil {
			return err
		}
		rows = append(rows, cells)
		if p.Limit > 0 && len(rows) == p.Limit {
			break
		}
	}
	replacer := controlReplacer
	if p.Border == BorderMarkdown {
		replacer = markdownReplacer
	}
	for i := range header {
		header[i] = replacer.Replace(header[i])
	}
	for _, row := range rows {
		for i := range row {
			row[i] = replacer.Replace(row[i])
		}
	}

	widths := computeWidths(len(header), header, rows)
	if p.MaxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], p.MaxWidth)
		}
	}

	switch p.Border {
	case BorderNone:
		err = renderPlainTable(w, header, rows, widths)
	case BorderMarkdown:
		err = renderMarkdownTable(w, header, rows, widths)
	default:
		err = renderBorderedTable(w, header, rows, widths, p.Border)
	}
	if err != nil {
		return err
	}
	if len(rows) < len(t.records) {
		if _, err := fmt.Fprintf(w, "%d of %d rows\n", len(rows), len(t.records)); err != nil {
			return err
		}
	}
	return nil
}

func computeWidths(numCols int, header []string, rows [][]string) []int {
	widths := make([]int, numCols)
	for i, h := range header {
		if w := runewidth.StringWidth(h); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func renderPlainTable(w io.Writer, header []string, rows [][]string, widths []int) error {
	if err := writePlainRow(w, header, widths, false); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, "  ")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writePlainRow(w, row, widths, true); err != nil {
			return err
		}
	}
	return nil
}

func writePlainRow(w io.Writer, cells []string, widths []int, alignNumbers bool) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = formatTableCell(cellAt(cells, i), width, alignNumbers)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

func renderBorderedTable(w io.Writer, header []string, rows [][]string, widths []int, style BorderStyle) error {
	bc, ok := borderSets[style]
	if !ok {
		bc = borderSets[BorderRounded]
	}
	if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
		return err
	}
	if err := drawBorderedRow(w, header, widths, bc.vertical, false); err != nil {
		return err
	}
	if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
		return err
	}
	for _, row := range rows {
		if err := drawBorderedRow(w, row, widths, bc.vertical, true); err != nil {
			return err
		}
	}
	return drawHLine(w, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

// renderMarkdownTable pads columns to at least 3 for the separator row.
func renderMarkdownTable(w io.Writer, header []string, rows [][]string, widths []int) error {
	widths = slices.Clone(widths)
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}
	if err := writeMarkdownRow(w, header, widths, false); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths, true); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int, alignNumbers bool) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		padded[i] = formatTableCell(cellAt(cells, i), width, alignNumbers)
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawBorderedRow(w io.Writer, cells []string, widths []int, vert string, alignNumbers bool) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, width := range widths {
		sb.WriteString(" ")
		sb.WriteString(formatTableCell(cellAt(cells, i), width, alignNumbers))
		sb.WriteString(" ")
		if i < len(widths)-1 {
			sb.WriteString(vert)
		}
	}
	sb.WriteString(vert)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func formatTableCell(s string, width int, alignNumbers bool) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	right := false
	if alignNumbers && s != "" {
		_, err := strconv.ParseFloat(s, 64)
		right = err == nil
	}
	return alignCell(s, width, right)
}

func alignCell(s string, width int, right bool) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
