package model

import "github.com/rubic/ouroboros/internal/geometry"

// PartialItemMeta carries the per-detection classification of a partial
// item, including the confidence the detector assigned it.
type PartialItemMeta struct {
	ItemType   ItemType `json:"item_type" bson:"item_type"`
	Confidence float64  `json:"confidence" bson:"confidence"`
	ScanID     string   `json:"scan_id" bson:"scan_id"`
	AisleIndex int      `json:"aisle_index" bson:"aisle_index"`
	ImageID    string   `json:"image_id" bson:"image_id"`
}

// PartialItemAbsolute carries one detection's position and pose in the
// world frame.
type PartialItemAbsolute struct {
	Position    Vector3 `json:"position" bson:"position"`
	Dimension   Vector3 `json:"dimension" bson:"dimension"`
	AlignedAxis string  `json:"aligned_axis" bson:"aligned_axis"`
}

// PartialItemRelative carries one detection's footprint relative to the
// image it was found in.
type PartialItemRelative struct {
	Header   Header  `json:"header" bson:"header"`
	Side     Side    `json:"side" bson:"side"`
	Dimension Vector3 `json:"dimension" bson:"dimension"`
	Position Vector3 `json:"position" bson:"position"`
}

// PartialItem is one uncertain detection of a box, empty slot, or conveyor
// item from a single image. Many partials of the same physical object are
// produced across scans; the scan compiler merges them into one Item.
type PartialItem struct {
	ID       string              `json:"id" bson:"_id,omitempty"`
	Meta     PartialItemMeta     `json:"meta" bson:"meta"`
	Absolute PartialItemAbsolute `json:"absolute" bson:"absolute"`
	Relative PartialItemRelative `json:"relative" bson:"relative"`
}

// BoundingBox computes the partial item's bounding box.
func (p PartialItem) BoundingBox() (Rectangle, error) {
	return geometry.BoundingBox(p.Absolute.Position, p.Absolute.AlignedAxis, p.Relative.Dimension)
}

// PartialBarcodeMeta carries the per-detection classification of a partial
// barcode.
type PartialBarcodeMeta struct {
	BarcodeType BarcodeType `json:"barcode_type" bson:"barcode_type"`
	Data        string      `json:"data" bson:"data"`
	ScanID      string      `json:"scan_id" bson:"scan_id"`
	AisleIndex  int         `json:"aisle_index" bson:"aisle_index"`
}

// PartialBarcodeAbsolute carries one barcode detection's position in the
// world frame.
type PartialBarcodeAbsolute struct {
	Position    Vector3 `json:"position" bson:"position"`
	Dimension   Vector3 `json:"dimension" bson:"dimension"`
	AlignedAxis string  `json:"aligned_axis" bson:"aligned_axis"`
}

// PartialBarcodeRelative carries one barcode detection's footprint relative
// to the image it was found in.
type PartialBarcodeRelative struct {
	Header    Header  `json:"header" bson:"header"`
	Side      Side    `json:"side" bson:"side"`
	Dimension Vector3 `json:"dimension" bson:"dimension"`
}

// PartialBarcode is one uncertain barcode detection from a single image.
type PartialBarcode struct {
	ID       string                  `json:"id" bson:"_id,omitempty"`
	Meta     PartialBarcodeMeta      `json:"meta" bson:"meta"`
	Absolute PartialBarcodeAbsolute  `json:"absolute" bson:"absolute"`
	Relative PartialBarcodeRelative  `json:"relative" bson:"relative"`
}

// BoundingBox computes the partial barcode's bounding box.
func (p PartialBarcode) BoundingBox() (Rectangle, error) {
	return geometry.BoundingBox(p.Absolute.Position, p.Absolute.AlignedAxis, p.Relative.Dimension)
}
