package models

import "strings"

// Missing-value sentinel tokens, matched case-insensitively after trimming.
var missingSentinels = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"-":    true,
}

// Column is an ordered sequence of raw cell values. A nil entry is an absent
// cell; sentinel tokens ("NA", "N/A", "null", "-") are treated as missing too.
type Column struct {
	Name   string    `json:"name"`
	Values []*string `json:"values"`
}

// Dataset is an ordered sequence of named columns of equal length. Row
// identity is the positional index and stays stable until cleaning drops or
// reorders rows.
type Dataset struct {
	Columns []Column `json:"columns"`
}

// Rows returns the row count. All columns have equal length by invariant.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. The engine is copy-on-read per invocation:
// cleaning always operates on a clone, never on the caller's table.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Columns: make([]Column, len(d.Columns))}
	for i, col := range d.Columns {
		values := make([]*string, len(col.Values))
		for j, v := range col.Values {
			if v != nil {
				s := *v
				values[j] = &s
			}
		}
		out.Columns[i] = Column{Name: col.Name, Values: values}
	}
	return out
}

// Cell returns the trimmed cell value and whether it is present. Sentinel
// tokens count as missing.
func (c *Column) Cell(row int) (string, bool) {
	v := c.Values[row]
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	if missingSentinels[strings.ToLower(s)] {
		return "", false
	}
	return s, true
}

// IsMissing reports whether the cell at row is absent or a sentinel token.
func (c *Column) IsMissing(row int) bool {
	_, ok := c.Cell(row)
	return !ok
}

// SetCell overwrites the cell at row.
func (c *Column) SetCell(row int, value string) {
	c.Values[row] = &value
}

// ClearCell marks the cell at row as missing.
func (c *Column) ClearCell(row int) {
	c.Values[row] = nil
}
