package schemadiff

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports that two databases are structurally
// unequal. The message carries the rendered diff report.
type SchemaMismatchError struct {
	Left   string
	Right  string
	Report string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schemas of %s and %s differ:\n%s", e.Left, e.Right, e.Report)
}

// Result holds the outcome of one comparison, including the two live
// connections it was computed from. The caller owns closing the
// connections via Close.
type Result struct {
	Left        *Connection
	Right       *Connection
	LeftSchema  *Snapshot
	RightSchema *Snapshot
}

func (r *Result) differences() []string {
	if r.LeftSchema == nil || r.RightSchema == nil {
		return nil
	}
	return diffSnapshots(r.LeftSchema, r.RightSchema)
}

// Equal reports whether the two snapshots are structurally identical.
func (r *Result) Equal() bool {
	return len(r.differences()) == 0
}

// Report renders the human-readable difference listing. Empty when the
// schemas are equal.
func (r *Result) Report() string {
	return strings.Join(r.differences(), "\n")
}

// Close releases both comparison connections. Both Close calls run even
// if the first fails.
func (r *Result) Close() error {
	var firstErr error
	for _, conn := range []*Connection{r.Left, r.Right} {
		if conn == nil {
			continue
		}
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Compare snapshots both connections and computes their structural
// differences. The returned Result embeds the connections; the caller is
// responsible for closing them.
func Compare(left, right *Connection) (*Result, error) {
	leftSchema, err := Take(left)
	if err != nil {
		return nil, err
	}
	rightSchema, err := Take(right)
	if err != nil {
		return nil, err
	}

	return &Result{
		Left:        left,
		Right:       right,
		LeftSchema:  leftSchema,
		RightSchema: rightSchema,
	}, nil
}

func diffSnapshots(left, right *Snapshot) []string {
	var diffs []string

	for _, name := range left.TableNames() {
		if _, exists := right.Tables[name]; !exists {
			diffs = append(diffs, fmt.Sprintf("table %s exists only in %s", name, left.Database))
		}
	}
	for _, name := range right.TableNames() {
		if _, exists := left.Tables[name]; !exists {
			diffs = append(diffs, fmt.Sprintf("table %s exists only in %s", name, right.Database))
		}
	}

	for _, name := range left.TableNames() {
		rightTable, exists := right.Tables[name]
		if !exists {
			continue
		}
		diffs = append(diffs, diffTables(left.Tables[name], rightTable, left.Database, right.Database)...)
	}

	return diffs
}

func diffTables(left, right *Table, leftDB, rightDB string) []string {
	var diffs []string

	leftColumns := make(map[string]Column, len(left.Columns))
	for _, column := range left.Columns {
		leftColumns[column.Name] = column
	}
	rightColumns := make(map[string]Column, len(right.Columns))
	for _, column := range right.Columns {
		rightColumns[column.Name] = column
	}

	for _, column := range left.Columns {
		other, exists := rightColumns[column.Name]
		if !exists {
			diffs = append(diffs, fmt.Sprintf("column %s.%s exists only in %s",
				left.Name, column.Name, leftDB))
			continue
		}
		if column != other {
			diffs = append(diffs, fmt.Sprintf("column %s.%s differs: %s (%s) vs %s (%s)",
				left.Name, column.Name, fmtColumn(column), leftDB, fmtColumn(other), rightDB))
		}
	}
	for _, column := range right.Columns {
		if _, exists := leftColumns[column.Name]; !exists {
			diffs = append(diffs, fmt.Sprintf("column %s.%s exists only in %s",
				right.Name, column.Name, rightDB))
		}
	}

	leftIndexes := make(map[string]Index, len(left.Indexes))
	for _, index := range left.Indexes {
		leftIndexes[index.Name] = index
	}
	rightIndexes := make(map[string]Index, len(right.Indexes))
	for _, index := range right.Indexes {
		rightIndexes[index.Name] = index
	}

	for _, index := range left.Indexes {
		other, exists := rightIndexes[index.Name]
		if !exists {
			diffs = append(diffs, fmt.Sprintf("index %s on %s exists only in %s",
				index.Name, left.Name, leftDB))
			continue
		}
		if index != other {
			diffs = append(diffs, fmt.Sprintf("index %s on %s differs: (%s unique=%t) vs (%s unique=%t)",
				index.Name, left.Name, index.Definition, index.Unique, other.Definition, other.Unique))
		}
	}
	for _, index := range right.Indexes {
		if _, exists := leftIndexes[index.Name]; !exists {
			diffs = append(diffs, fmt.Sprintf("index %s on %s exists only in %s",
				index.Name, right.Name, rightDB))
		}
	}

	return diffs
}
