package entity

// Rect is an area in terminal cells.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// NewRect builds a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Area returns W*H.
func (r Rect) Area() int {
	return r.W * r.H
}

// Empty reports whether the rectangle covers no cell.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Center2 returns the centre point scaled by two, so odd extents stay exact.
func (r Rect) Center2() (cx, cy int) {
	return 2*r.X + r.W, 2*r.Y + r.H
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether two rectangles share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && other.X < r.X+r.W &&
		r.Y < other.Y+other.H && other.Y < r.Y+r.H
}

// Point is a cell coordinate, as reported by pointer events.
type Point struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// NewPoint builds a point.
func NewPoint(x, y uint16) Point {
	return Point{X: x, Y: y}
}
