// Package geometry implements the pure, side-effect-free rectangle
// arithmetic the scan compiler, planner, and response processor all build
// on: area, overlap, stacking tests, and slicing, plus the Vector2/Vector3/
// Rectangle primitives they share. It has no dependency on the inventory or
// job models in package model; model aliases these types instead.
package geometry

import (
	"errors"
)

// Margins and thresholds fixed by the domain (spec.md §3/§4.1).
const (
	VerticalMargin   = 0.055
	HorizontalMargin = 0.10
	MinDimension     = 0.1
)

// ErrNoOverlap is returned by operations that require two rectangles to
// overlap (slicing) when they do not.
var ErrNoOverlap = errors.New("geometry: rectangles do not overlap")

// ErrMissingAlignedAxis is returned by BoundingBox when the entity has no
// aligned axis to interpret its position against.
var ErrMissingAlignedAxis = errors.New("geometry: missing aligned axis")

// Area returns the area of a rectangle.
func Area(r Rectangle) float64 {
	return (r.TopRight.X - r.BottomLeft.X) * (r.TopRight.Y - r.BottomLeft.Y)
}

// OverlapArea returns the area shared by two rectangles, or 0 if they do not
// overlap.
func OverlapArea(a, b Rectangle) float64 {
	xOverlap := min(a.TopRight.X, b.TopRight.X) - max(a.BottomLeft.X, b.BottomLeft.X)
	if xOverlap < 0 {
		xOverlap = 0
	}
	yOverlap := min(a.TopRight.Y, b.TopRight.Y) - max(a.BottomLeft.Y, b.BottomLeft.Y)
	if yOverlap < 0 {
		yOverlap = 0
	}
	return xOverlap * yOverlap
}

// BottomCenter returns the bottom-middle point of a rectangle.
func BottomCenter(r Rectangle) Vector2 {
	return Vector2{
		X: (r.BottomLeft.X + r.TopRight.X) / 2,
		Y: r.BottomLeft.Y,
	}
}

// ContainsPoint reports whether (x, y) lies within r, inclusive on both
// axes.
func ContainsPoint(r Rectangle, x, y float64) bool {
	return r.BottomLeft.X <= x && x <= r.TopRight.X &&
		r.BottomLeft.Y <= y && y <= r.TopRight.Y
}

// IsStackedOn reports whether top rests on bottom: top's horizontal span
// overlaps bottom's span after bottom's is shrunk by HorizontalMargin at
// each end, and top's bottom edge sits within VerticalMargin of bottom's
// top edge.
func IsStackedOn(top, bottom Rectangle) bool {
	horizontalOverlap := top.TopRight.X > bottom.BottomLeft.X+HorizontalMargin &&
		top.BottomLeft.X < bottom.TopRight.X-HorizontalMargin
	verticalNear := abs(top.BottomLeft.Y-bottom.TopRight.Y) < VerticalMargin
	return horizontalOverlap && verticalNear
}

// SliceRectangle slices base by cutter, returning up to three sub-rectangles
// (left strip, middle-top strip, right strip), dropping any whose width or
// height is <= MinDimension. It fails if base and cutter do not overlap.
func SliceRectangle(base, cutter Rectangle) ([]Rectangle, error) {
	if OverlapArea(base, cutter) <= 0 {
		return nil, ErrNoOverlap
	}

	overlapLeft := max(base.BottomLeft.X, cutter.BottomLeft.X)
	overlapRight := min(base.TopRight.X, cutter.TopRight.X)
	overlapTop := min(base.TopRight.Y, cutter.TopRight.Y)

	candidates := [3]Rectangle{
		{ // left strip
			BottomLeft: base.BottomLeft,
			TopRight:   Vector2{X: overlapLeft, Y: base.TopRight.Y},
		},
		{ // middle top strip
			BottomLeft: Vector2{X: overlapLeft, Y: overlapTop},
			TopRight:   Vector2{X: overlapRight, Y: base.TopRight.Y},
		},
		{ // right strip
			BottomLeft: Vector2{X: overlapRight, Y: base.BottomLeft.Y},
			TopRight:   base.TopRight,
		},
	}

	result := make([]Rectangle, 0, 3)
	for _, rect := range candidates {
		if rect.Width() > MinDimension && rect.Height() > MinDimension {
			result = append(result, rect)
		}
	}
	return result, nil
}

// BoundingBox computes the bounding box of an entity (item or barcode) from
// its absolute position, aligned axis, and relative (w, h, _) dimension. The
// position is the bottom-center of the footprint on the named axis.
func BoundingBox(position Vector3, alignedAxis string, dimension Vector3) (Rectangle, error) {
	if alignedAxis != "x" && alignedAxis != "z" && alignedAxis != "y" {
		return Rectangle{}, ErrMissingAlignedAxis
	}
	center := position.Axis(alignedAxis)
	halfWidth := dimension.X / 2
	return Rectangle{
		BottomLeft: Vector2{X: center - halfWidth, Y: position.Y},
		TopRight:   Vector2{X: center + halfWidth, Y: position.Y + dimension.Y},
	}, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
