// Package cliptext encodes and parses the tab/newline clipboard dialect
// exchanged with spreadsheet applications.
package cliptext

import "strings"

// Encode joins cells with tabs and rows with newlines, quoting cells that would not survive Parse.
// A blank last row starts with an empty quoted cell so it is not read back as a trailing terminator.
func Encode(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		blankTail := i == len(rows)-1 && blankRow(row)
		for j, cell := range row {
			if j > 0 {
				b.WriteByte('\t')
			}
			if j == 0 && blankTail {
				b.WriteString(`""`)
				continue
			}
			b.WriteString(QuoteCell(cell))
		}
	}
	return b.String()
}

// blankRow reports whether row has cells and all of them are empty.
func blankRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// QuoteCell wraps cell in double quotes, doubling inner quotes, when it holds a line break
// or starts with a quote.
func QuoteCell(cell string) string {
	if !strings.ContainsAny(cell, "\n\r") && !strings.HasPrefix(cell, `"`) {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// Parse splits text into rows of cells.
// A quote opens quote mode only at the start of a cell; inside quotes "" is a literal quote.
// Rows end at \n, \r\n or \r. A single trailing terminator does not produce an empty row.
func Parse(text string) [][]string {
	var (
		rows      [][]string
		row       []string
		cell      strings.Builder
		inQuotes  bool
		cellStart = true
		pending   bool
	)
	endCell := func() {
		row = append(row, cell.String())
		cell.Reset()
		cellStart = true
	}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		pending = true
		if inQuotes {
			if ch == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					cell.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			cell.WriteByte(ch)
			continue
		}
		switch ch {
		case '"':
			if cellStart {
				inQuotes = true
				cellStart = false
				continue
			}
			cell.WriteByte(ch)
		case '\t':
			endCell()
			continue
		case '\r', '\n':
			if ch == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endCell()
			rows = append(rows, row)
			row = nil
			pending = false
			continue
		default:
			cell.WriteByte(ch)
		}
		cellStart = false
	}
	if pending {
		endCell()
		rows = append(rows, row)
	}
	return rows
}

// Width returns the length of the widest row.
func Width(rows [][]string) int {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return width
}
