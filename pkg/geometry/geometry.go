// Package geometry provides the layout primitives shared by all archetype
// compilers: points, rectangles, bounding boxes, radial placement, and
// adaptive shape sizing.
//
// All coordinates are in user units (typically pixels). The Y axis grows
// downward, matching the rendering collaborator's canvas convention.
package geometry

import "math"

// Point is a position in content coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle in content coordinates.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.MinX + r.MaxX) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.MinY + r.MaxY) / 2 }

// Center returns the centroid of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// RectAround returns the rectangle of the given size centered on p.
func RectAround(p Point, width, height float64) Rect {
	return Rect{
		MinX: p.X - width/2,
		MinY: p.Y - height/2,
		MaxX: p.X + width/2,
		MaxY: p.Y + height/2,
	}
}

// BoundsOf returns the union bounding box of the given rectangles.
// The second return value is false when rects is empty.
func BoundsOf(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	out := rects[0]
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out, true
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// RingPositions places n points at equal angular steps on a circle of the
// given radius around center, starting at the top (−90°) and proceeding
// clockwise. Slot 0 is therefore due north of the center. Returns an empty
// slice for n <= 0.
func RingPositions(center Point, radius float64, n int) []Point {
	if n <= 0 {
		return nil
	}
	out := make([]Point, n)
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		angle := -math.Pi/2 + float64(i)*step
		out[i] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return out
}

// spacingMultiplier widens the circumferential spacing as satellite counts
// grow, so larger rings do not pack shapes edge to edge.
func spacingMultiplier(n int) float64 {
	switch {
	case n > 6:
		return 2.1
	case n > 3:
		return 2.05
	default:
		return 2.0
	}
}

// RingRadius computes the radius for a ring of n satellite shapes around a
// center shape. The result is the larger of the fixed radial target and the
// circumferential minimum that keeps satellites from overlapping:
//
//	minRadius = satelliteRadius * n * multiplier / 2π
//
// For n == 0 the circumferential term is zero and the radial target wins.
func RingRadius(radialTarget, satelliteRadius float64, n int) float64 {
	if n <= 0 {
		return radialTarget
	}
	circumferential := satelliteRadius * float64(n) * spacingMultiplier(n) / (2 * math.Pi)
	return math.Max(radialTarget, circumferential)
}
