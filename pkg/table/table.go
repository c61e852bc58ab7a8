package table

// Severity indicates how a cell value should be presented to the user.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityOK
	SeverityWarn
	SeverityError
)

// Cell is a single named value in a row.
type Cell struct {
	Column   string
	Value    string
	Severity Severity
}

// Row is an ordered list of cells describing one resource. Rows are passed
// around by value but contain a slice, so Clone must be used whenever a row
// crosses an ownership boundary (e.g. into a view update).
type Row struct {
	Cells []Cell
}

// Get returns the value of the named column, if present.
func (r Row) Get(column string) (string, bool) {
	for _, cell := range r.Cells {
		if cell.Column == column {
			return cell.Value, true
		}
	}
	return "", false
}

// Set replaces the value of the named column, appending a new cell if the
// column isn't present yet.
func (r *Row) Set(column string, value string) {
	for c := range r.Cells {
		if r.Cells[c].Column == column {
			r.Cells[c].Value = value
			return
		}
	}
	r.Cells = append(r.Cells, Cell{Column: column, Value: value})
}

// SetSeverity sets the severity of the named column if it exists.
func (r *Row) SetSeverity(column string, severity Severity) {
	for c := range r.Cells {
		if r.Cells[c].Column == column {
			r.Cells[c].Severity = severity
			return
		}
	}
}

// Clone returns a deep copy of this row that shares no state with the
// original.
func (r Row) Clone() Row {
	cells := make([]Cell, len(r.Cells))
	copy(cells, r.Cells)
	return Row{Cells: cells}
}

// Name returns the value of the NAME column, falling back to the first cell
// for outputs that use a different identifier column.
func (r Row) Name() string {
	if name, ok := r.Get("NAME"); ok {
		return name
	}
	if len(r.Cells) > 0 {
		return r.Cells[0].Value
	}
	return ""
}

// Table is a parsed tabular result from an external CLI.
type Table struct {
	Columns []string
	Rows    []Row
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, row.Clone())
	}

	return &Table{
		Columns: columns,
		Rows:    rows,
	}
}

// Lookup returns the value at the given row index and column.
func (t *Table) Lookup(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	return t.Rows[row].Get(column)
}
