package view

import (
	"bytes"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/kubeterm/kubeterm/pkg/table"
)

var (
	okColor   = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// Render returns a pretty table for a structured result, coloring cells
// according to their severity.
func Render(t *table.Table) string {
	buf := &bytes.Buffer{}

	writer := tablewriter.NewWriter(buf)
	writer.SetHeader(t.Columns)
	writer.SetAutoWrapText(false)
	writer.SetAutoFormatHeaders(false)
	writer.SetBorders(
		tablewriter.Border{
			Left:   false,
			Top:    true,
			Right:  false,
			Bottom: true,
		},
	)

	for _, row := range t.Rows {
		values := []string{}
		for _, column := range t.Columns {
			value, _ := row.Get(column)

			severity := table.SeverityNone
			for _, cell := range row.Cells {
				if cell.Column == column {
					severity = cell.Severity
					break
				}
			}
			values = append(values, colorize(value, severity))
		}
		writer.Append(values)
	}

	writer.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func colorize(value string, severity table.Severity) string {
	switch severity {
	case table.SeverityOK:
		return okColor.Sprint(value)
	case table.SeverityInfo:
		return infoColor.Sprint(value)
	case table.SeverityWarn:
		return warnColor.Sprint(value)
	case table.SeverityError:
		return errColor.Sprint(value)
	default:
		return value
	}
}
