package model

import "math"

// Rect represents a rectangle in page coordinate space. The origin is the
// top-left corner of the page with Y increasing downward, matching the
// coordinates produced by structural parsers. Invariant: X0 <= X1, Y0 <= Y1.
type Rect struct {
	X0, Y0 float64 // Top-left corner
	X1, Y1 float64 // Bottom-right corner
}

// NewRect creates a rectangle, normalizing swapped corners.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Area returns the area of the rectangle.
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// IsValid returns true if the rectangle has positive dimensions.
func (r Rect) IsValid() bool {
	return r.X1 > r.X0 && r.Y1 > r.Y0
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return !r.IsValid()
}

// Union returns the smallest rectangle covering both rectangles.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Intersects checks if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.X1 < other.X0 ||
		r.X0 > other.X1 ||
		r.Y1 < other.Y0 ||
		r.Y0 > other.Y1)
}

// Intersection returns the overlapping region of two rectangles.
// Returns the zero Rect when they do not intersect.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		X0: math.Max(r.X0, other.X0),
		Y0: math.Max(r.Y0, other.Y0),
		X1: math.Min(r.X1, other.X1),
		Y1: math.Min(r.Y1, other.Y1),
	}
}

// Expand grows the rectangle by pad on all sides, clamping the top-left
// corner to non-negative page coordinates.
func (r Rect) Expand(pad float64) Rect {
	return Rect{
		X0: math.Max(0, r.X0-pad),
		Y0: math.Max(0, r.Y0-pad),
		X1: r.X1 + pad,
		Y1: r.Y1 + pad,
	}
}

// Contains checks if other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.X0 >= r.X0 && other.Y0 >= r.Y0 &&
		other.X1 <= r.X1 && other.Y1 <= r.Y1
}
