package table

import (
	"fmt"
	"strings"
)

// Parse converts the aligned, whitespace-padded table output produced by
// kubectl, helm, etc. into a structured Table. Columns are located by their
// offsets in the header line; values may therefore contain single internal
// spaces (e.g. "LAST SEEN" style columns are also fine in the header because
// columns must be separated by at least two spaces).
func Parse(raw []byte) (*Table, error) {
	lines := strings.Split(string(raw), "\n")

	var header string
	var bodyStart int

	for l, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "Warning:") {
			// kubectl can emit deprecation warnings above the table.
			continue
		}
		header = line
		bodyStart = l + 1
		break
	}

	if header == "" {
		return nil, fmt.Errorf("No table found in output: %q", string(raw))
	}

	offsets, columns := headerOffsets(header)

	table := &Table{
		Columns: columns,
	}

	for _, line := range lines[bodyStart:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		row := Row{}
		for c := range columns {
			start := offsets[c]
			if start >= len(line) {
				row.Cells = append(row.Cells, Cell{Column: columns[c]})
				continue
			}

			end := len(line)
			if c+1 < len(offsets) && offsets[c+1] < end {
				end = offsets[c+1]
			}

			row.Cells = append(row.Cells, Cell{
				Column: columns[c],
				Value:  strings.TrimSpace(line[start:end]),
			})
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// headerOffsets finds the byte offset and name of each column in a header
// line. A column starts wherever a non-space run begins after two or more
// spaces (or at the start of the line).
func headerOffsets(header string) ([]int, []string) {
	offsets := []int{}
	columns := []string{}

	inColumn := false
	spaces := 2

	for b := 0; b < len(header); b++ {
		if header[b] == ' ' {
			spaces++
			if spaces >= 2 {
				inColumn = false
			}
			continue
		}

		if !inColumn {
			offsets = append(offsets, b)
			inColumn = true
		}
		spaces = 0
	}

	for c, offset := range offsets {
		end := len(header)
		if c+1 < len(offsets) {
			end = offsets[c+1]
		}
		columns = append(columns, strings.TrimSpace(header[offset:end]))
	}

	return offsets, columns
}
