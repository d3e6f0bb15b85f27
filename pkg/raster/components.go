package raster

// Neighbors returns the filled 8-connected neighbors of (row, col) in
// directions order.
func (g *Grid) Neighbors(row, col int) []Cell {
	var out []Cell
	for _, d := range directions {
		nr, nc := row+d[0], col+d[1]
		if g.At(nr, nc) {
			out = append(out, Cell{Row: nr, Col: nc})
		}
	}
	return out
}

// Components partitions the filled cells into 8-connected regions.
// Regions are ordered by their first cell in row-major order, and cells
// within a region are in discovery (breadth-first) order.
func (g *Grid) Components() [][]Cell {
	var comps [][]Cell
	seen := make([]bool, len(g.cells))
	for i, filled := range g.cells {
		if !filled || seen[i] {
			continue
		}
		queue := []Cell{{Row: i / g.cols, Col: i % g.cols}}
		seen[i] = true
		for q := 0; q < len(queue); q++ {
			cur := queue[q]
			for _, n := range g.Neighbors(cur.Row, cur.Col) {
				if j := n.Row*g.cols + n.Col; !seen[j] {
					seen[j] = true
					queue = append(queue, n)
				}
			}
		}
		comps = append(comps, queue)
	}
	return comps
}

// Labels returns a row-major slice assigning each filled cell the index of
// its 8-connected region and -1 to empty cells. Region indices match
// Components.
func (g *Grid) Labels() []int {
	label := make([]int, len(g.cells))
	for i := range label {
		label[i] = -1
	}
	next := 0
	for i, filled := range g.cells {
		if !filled || label[i] >= 0 {
			continue
		}
		label[i] = next
		stack := []Cell{{Row: i / g.cols, Col: i % g.cols}}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range g.Neighbors(cur.Row, cur.Col) {
				if j := n.Row*g.cols + n.Col; label[j] < 0 {
					label[j] = next
					stack = append(stack, n)
				}
			}
		}
		next++
	}
	return label
}

// Connected reports whether every filled cell is reachable from one of the
// given cells through filled 8-connected neighbors.
func (g *Grid) Connected(from []Cell) bool {
	label := g.Labels()
	reached := make(map[int]bool, len(from))
	for _, c := range from {
		if g.At(c.Row, c.Col) {
			reached[label[c.Row*g.cols+c.Col]] = true
		}
	}
	for _, l := range label {
		if l >= 0 && !reached[l] {
			return false
		}
	}
	return true
}
