package raster

import (
	"encoding/json"
	"fmt"
	"strings"

	perrors "github.com/matzehuels/pearls/pkg/errors"
)

// Cell is a zero-based (row, col) grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the cell as "(row,col)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rows × cols occupancy matrix stored row-major.
// Dimensions are fixed at construction.
type Grid struct {
	rows, cols int
	cells      []bool
}

// New returns an empty grid. It returns an InvalidParameter error when
// rows or cols is < 1 or rows*cols overflows int. It allocates rows*cols
// cells; callers taking untrusted dimensions should bound them with
// perrors.ValidateBoundedDimensions first.
func New(rows, cols int) (*Grid, error) {
	if err := perrors.ValidateDimensions(rows, cols); err != nil {
		return nil, err
	}
	return &Grid{rows: rows, cols: cols, cells: make([]bool, rows*cols)}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns rows*cols.
func (g *Grid) Size() int { return len(g.cells) }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At reports whether (row, col) is filled. Out-of-range coordinates are empty.
func (g *Grid) At(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.cells[row*g.cols+col]
}

// Set marks (row, col) as filled or empty. Out-of-range coordinates are ignored.
func (g *Grid) Set(row, col int, filled bool) {
	if !g.InBounds(row, col) {
		return
	}
	g.cells[row*g.cols+col] = filled
}

// Filled returns the number of filled cells.
func (g *Grid) Filled() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// Cells returns the filled cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, g.Filled())
	for i, v := range g.cells {
		if v {
			out = append(out, Cell{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]bool, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether g and o have the same dimensions and occupancy.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid with '#' for filled and '.' for empty cells,
// one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.At(r, c) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if r < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Parse builds a grid from the String format. Blank lines and surrounding
// whitespace are ignored; every row must have the same width.
func Parse(s string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "empty grid")
	}
	g, err := New(len(lines), len(lines[0]))
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		if len(line) != g.cols {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "row %d has width %d, want %d", r, len(line), g.cols)
		}
		for c, ch := range line {
			switch ch {
			case '#':
				g.Set(r, c, true)
			case '.':
			default:
				return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid cell %q at %d,%d", ch, r, c)
			}
		}
	}
	return g, nil
}

// MustParse is Parse that panics on error. Intended for tests and examples.
func MustParse(s string) *Grid {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// gridJSON is the wire form: rows of 0/1 flags, like the sketch's raster arrays.
type gridJSON struct {
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Cells [][]int `json:"cells"`
}

// MarshalJSON encodes the grid as {"rows","cols","cells":[[0,1,...],...]}.
func (g *Grid) MarshalJSON() ([]byte, error) {
	out := gridJSON{Rows: g.rows, Cols: g.cols, Cells: make([][]int, g.rows)}
	for r := 0; r < g.rows; r++ {
		row := make([]int, g.cols)
		for c := 0; c < g.cols; c++ {
			if g.At(r, c) {
				row[c] = 1
			}
		}
		out.Cells[r] = row
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the MarshalJSON form.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	ng, err := New(in.Rows, in.Cols)
	if err != nil {
		return err
	}
	if len(in.Cells) != in.Rows {
		return perrors.New(perrors.ErrCodeInvalidInput, "grid has %d rows of cells, want %d", len(in.Cells), in.Rows)
	}
	for r, row := range in.Cells {
		if len(row) != in.Cols {
			return perrors.New(perrors.ErrCodeInvalidInput, "row %d has %d cells, want %d", r, len(row), in.Cols)
		}
		for c, v := range row {
			ng.Set(r, c, v != 0)
		}
	}
	*g = *ng
	return nil
}
