// Package dataset provides the column-typed table the workflow operates on,
// CSV loading with type inference, column-name cleaning, and the bundled
// Ames housing sample.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/amesfit/amesfit/pkg/errors"
)

// ColumnKind distinguishes numeric columns from string (categorical)
// columns.
type ColumnKind int

const (
	// Numeric columns hold float64 values; missing values are NaN.
	Numeric ColumnKind = iota
	// String columns hold raw strings; missing values are "".
	String
)

func (k ColumnKind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "string"
}

// Column is a single named, typed column. Exactly one of Floats or Strings
// is populated, according to Kind.
type Column struct {
	Name    string
	Kind    ColumnKind
	Floats  []float64
	Strings []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Levels returns the sorted unique values of a string column.
func (c *Column) Levels() []string {
	if c.Kind != String {
		return nil
	}
	seen := make(map[string]struct{}, len(c.Strings))
	for _, s := range c.Strings {
		seen[s] = struct{}{}
	}
	levels := make([]string, 0, len(seen))
	for s := range seen {
		levels = append(levels, s)
	}
	sort.Strings(levels)
	return levels
}

// Mean returns the mean of a numeric column, ignoring NaN entries.
func (c *Column) Mean() float64 {
	if c.Kind != Numeric {
		return math.NaN()
	}
	vals := c.finite()
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// StdDev returns the sample standard deviation of a numeric column,
// ignoring NaN entries.
func (c *Column) StdDev() float64 {
	if c.Kind != Numeric {
		return math.NaN()
	}
	vals := c.finite()
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}

// Quantile returns the p-quantile of a numeric column, ignoring NaN
// entries.
func (c *Column) Quantile(p float64) float64 {
	if c.Kind != Numeric {
		return math.NaN()
	}
	vals := c.finite()
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	return stat.Quantile(p, stat.Empirical, vals, nil)
}

func (c *Column) finite() []float64 {
	vals := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func (c *Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = append([]float64(nil), c.Floats...)
	} else {
		out.Strings = append([]string(nil), c.Strings...)
	}
	return out
}

// Table is a column-oriented data table. All columns have the same length.
type Table struct {
	cols  []Column
	index map[string]int
}

// NewTable builds a table from columns, validating that every column has
// the same length and a unique name.
func NewTable(cols ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, col := range cols {
		if err := t.addColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) addColumn(col Column) error {
	if _, ok := t.index[col.Name]; ok {
		return errors.NewColumnError("NewTable", col.Name, "duplicate column name")
	}
	if len(t.cols) > 0 && col.Len() != t.cols[0].Len() {
		return errors.NewDimensionError("NewTable", t.cols[0].Len(), col.Len(), 0)
	}
	t.index[col.Name] = len(t.cols)
	t.cols = append(t.cols, col)
	return nil
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Col returns the named column.
func (t *Table) Col(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.NewColumnError("Table.Col", name, "no such column")
	}
	return &t.cols[i], nil
}

// Select returns a new table with only the named columns, in the given
// order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{index: make(map[string]int, len(names))}
	for _, name := range names {
		col, err := t.Col(name)
		if err != nil {
			return nil, err
		}
		if err := out.addColumn(col.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Drop returns a new table without the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	dropped := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !t.Has(name) {
			return nil, errors.NewColumnError("Table.Drop", name, "no such column")
		}
		dropped[name] = struct{}{}
	}
	keep := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := dropped[c.Name]; !ok {
			keep = append(keep, c.Name)
		}
	}
	return t.Select(keep...)
}

// Subset returns a new table containing the given rows, in order. Row
// indices may repeat (bootstrap resampling relies on this).
func (t *Table) Subset(rows []int) (*Table, error) {
	n := t.Rows()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, errors.NewValueError("Table.Subset", fmt.Sprintf("row index %d out of range [0, %d)", r, n))
		}
	}
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		sub := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Numeric {
			sub.Floats = make([]float64, len(rows))
			for i, r := range rows {
				sub.Floats[i] = c.Floats[r]
			}
		} else {
			sub.Strings = make([]string, len(rows))
			for i, r := range rows {
				sub.Strings[i] = c.Strings[r]
			}
		}
		if err := out.addColumn(sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WithColumn returns a new table with col appended, or replacing an
// existing column of the same name.
func (t *Table) WithColumn(col Column) (*Table, error) {
	if t.Rows() > 0 && col.Len() != t.Rows() {
		return nil, errors.NewDimensionError("Table.WithColumn", t.Rows(), col.Len(), 0)
	}
	out := &Table{index: make(map[string]int, len(t.cols)+1)}
	replaced := false
	for _, c := range t.cols {
		if c.Name == col.Name {
			if err := out.addColumn(col); err != nil {
				return nil, err
			}
			replaced = true
			continue
		}
		if err := out.addColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	if !replaced {
		if err := out.addColumn(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WithLog10Column returns a new table with dst holding log10(src). Values
// must be strictly positive.
func (t *Table) WithLog10Column(src, dst string) (*Table, error) {
	col, err := t.Col(src)
	if err != nil {
		return nil, err
	}
	if col.Kind != Numeric {
		return nil, errors.NewColumnError("Table.WithLog10Column", src, "not a numeric column")
	}
	logged := Column{Name: dst, Kind: Numeric, Floats: make([]float64, len(col.Floats))}
	for i, v := range col.Floats {
		if v <= 0 {
			return nil, errors.NewValueError("Table.WithLog10Column", fmt.Sprintf("non-positive value %g at row %d of %q", v, i, src))
		}
		logged.Floats[i] = math.Log10(v)
	}
	return t.WithColumn(logged)
}

// Matrix exports the named numeric columns as a dense matrix in column
// order. String columns are rejected; dummy encoding belongs to the recipe
// and formula layers.
func (t *Table) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.NewModelError("Table.Matrix", "no columns requested", errors.ErrEmptyData)
	}
	n := t.Rows()
	if n == 0 {
		return nil, errors.NewModelError("Table.Matrix", "empty table", errors.ErrEmptyData)
	}
	out := mat.NewDense(n, len(names), nil)
	for j, name := range names {
		col, err := t.Col(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != Numeric {
			return nil, errors.NewColumnError("Table.Matrix", name, "not a numeric column")
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, col.Floats[i])
		}
	}
	return out, nil
}

// Vector exports a numeric column as an n×1 matrix, the response shape the
// estimators expect.
func (t *Table) Vector(name string) (*mat.Dense, error) {
	return t.Matrix(name)
}

// CleanNames returns a new table with every column name canonicalized to
// snake_case (see CleanName).
func (t *Table) CleanNames() (*Table, error) {
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		cleaned := c.clone()
		cleaned.Name = CleanName(c.Name)
		if err := out.addColumn(cleaned); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// String renders a short shape description for logs.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d rows × %d columns: %s)", t.Rows(), t.NumCols(), strings.Join(t.Names(), ", "))
}
