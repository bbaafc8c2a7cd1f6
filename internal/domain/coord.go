package domain

// Coord identifies one cell by column index and row index.
type Coord struct {
	Col int
	Row int
}

// Axis selects the column or row component of a coordinate.
type Axis int

// AxisCol and AxisRow name the two grid axes.
const (
	AxisCol Axis = iota
	AxisRow
)

// Other returns the opposite axis.
func (a Axis) Other() Axis {
	if a == AxisCol {
		return AxisRow
	}
	return AxisCol
}

// Get returns the component of c on axis a.
func (c Coord) Get(a Axis) int {
	if a == AxisCol {
		return c.Col
	}
	return c.Row
}

// With returns a copy of c with the component on axis a replaced.
func (c Coord) With(a Axis, v int) Coord {
	if a == AxisCol {
		c.Col = v
	} else {
		c.Row = v
	}
	return c
}

// Selection is a rectangle spanned by an anchor (Start) and a focus (End).
// The corners are not normalized; use TopLeft and BottomRight for bounds.
type Selection struct {
	Start Coord
	End   Coord
}

// SingleCell returns a selection covering exactly c.
func SingleCell(c Coord) Selection {
	return Selection{Start: c, End: c}
}

// TopLeft returns the minimum corner of the rectangle.
func (s Selection) TopLeft() Coord {
	return Coord{Col: min(s.Start.Col, s.End.Col), Row: min(s.Start.Row, s.End.Row)}
}

// BottomRight returns the maximum corner of the rectangle.
func (s Selection) BottomRight() Coord {
	return Coord{Col: max(s.Start.Col, s.End.Col), Row: max(s.Start.Row, s.End.Row)}
}

// Width returns the number of selected columns.
func (s Selection) Width() int {
	return s.BottomRight().Col - s.TopLeft().Col + 1
}

// Height returns the number of selected rows.
func (s Selection) Height() int {
	return s.BottomRight().Row - s.TopLeft().Row + 1
}

// IsSingle reports whether the selection covers one cell.
func (s Selection) IsSingle() bool {
	return s.Start == s.End
}

// Contains reports whether c lies inside the rectangle.
func (s Selection) Contains(c Coord) bool {
	tl, br := s.TopLeft(), s.BottomRight()
	return tl.Col <= c.Col && c.Col <= br.Col && tl.Row <= c.Row && c.Row <= br.Row
}

// ContainsCol reports whether column col lies inside the column span.
func (s Selection) ContainsCol(col int) bool {
	return min(s.Start.Col, s.End.Col) <= col && col <= max(s.Start.Col, s.End.Col)
}

// ContainsRow reports whether row lies inside the row span.
func (s Selection) ContainsRow(row int) bool {
	return min(s.Start.Row, s.End.Row) <= row && row <= max(s.Start.Row, s.End.Row)
}

// Clamp returns s with both corners limited to [0,lastCol] x [0,lastRow].
func (s Selection) Clamp(lastCol, lastRow int) Selection {
	return Selection{
		Start: ClampCoord(s.Start, lastCol, lastRow),
		End:   ClampCoord(s.End, lastCol, lastRow),
	}
}

// ClampCoord limits c to [0,lastCol] x [0,lastRow].
func ClampCoord(c Coord, lastCol, lastRow int) Coord {
	return Coord{Col: Clamp(c.Col, 0, lastCol), Row: Clamp(c.Row, 0, lastRow)}
}

// Clamp limits v to [lo,hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
