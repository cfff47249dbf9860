// Package model defines the wire and storage representations of the
// warehouse inventory domain: partial detections, canonical items and
// barcodes, and the robot job/batch envelopes. Its vector/rectangle
// primitives are aliases onto package geometry, which owns that arithmetic
// and must not depend back on model.
package model

import "github.com/rubic/ouroboros/internal/geometry"

type (
	Vector2   = geometry.Vector2
	Vector3   = geometry.Vector3
	Timestamp = geometry.Timestamp
	Header    = geometry.Header
	Rectangle = geometry.Rectangle
)
