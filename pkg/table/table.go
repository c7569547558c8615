package table

// Row is a single flattened record. Columns remember insertion order so
// tables keep a stable layout from the first row that introduced them.
type Row struct {
	cols   []string
	values map[string]string
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set stores a cell value. Setting an existing column overwrites the
// value without changing column order.
func (r *Row) Set(col, value string) {
	if _, ok := r.values[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.values[col] = value
}

// Get returns a cell value and whether the column is present.
func (r *Row) Get(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Columns returns the row's column names in insertion order.
func (r *Row) Columns() []string {
	return r.cols
}

// Len returns the number of cells in the row.
func (r *Row) Len() int {
	return len(r.cols)
}

// Table is an ordered sequence of rows of one dataset kind. The column
// set is the union of all row columns in first-seen order; a row that
// omits a column contributes an implicit null (empty cell) there.
type Table struct {
	columns []string
	seen    map[string]bool
	rows    []*Row
}

// New creates an empty table.
func New() *Table {
	return &Table{seen: make(map[string]bool)}
}

// Append adds a row, registering any columns the table has not seen yet.
func (t *Table) Append(r *Row) {
	for _, col := range r.cols {
		if !t.seen[col] {
			t.seen[col] = true
			t.columns = append(t.columns, col)
		}
	}
	t.rows = append(t.rows, r)
}

// Extend appends all rows of other, preserving their order.
func (t *Table) Extend(other *Table) {
	if other == nil {
		return
	}
	for _, r := range other.rows {
		t.Append(r)
	}
}

// Columns returns the table's column names in first-seen order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Rows returns the table's rows in insertion order.
func (t *Table) Rows() []*Row {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.rows) == 0
}

// Cell returns the value at (row index, column), with absent cells
// rendered as the empty string.
func (t *Table) Cell(i int, col string) string {
	v, _ := t.rows[i].Get(col)
	return v
}
