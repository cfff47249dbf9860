package model

import "github.com/rubic/ouroboros/internal/geometry"

// BarcodeType identifies the symbology of a scanned barcode.
type BarcodeType string

const (
	BarcodeTypeGS1128    BarcodeType = "GS1-128"
	BarcodeTypeCode128   BarcodeType = "Code 128"
)

// IsPrimary reports whether this barcode type is one a client may use to
// identify an item (spec.md glossary: "Primary barcode").
func (bt BarcodeType) IsPrimary() bool {
	return bt == BarcodeTypeGS1128 || bt == BarcodeTypeCode128
}

// BarcodeMeta carries the classification fields of a barcode.
type BarcodeMeta struct {
	BarcodeType BarcodeType `json:"barcode_type" bson:"barcode_type"`
	Data        string      `json:"data" bson:"data"`
	AisleIndex  *int        `json:"aisle_index" bson:"aisle_index"`
}

// BarcodeAbsolute carries the barcode's position and pose in the world
// frame.
type BarcodeAbsolute struct {
	Position    Vector3 `json:"position" bson:"position"`
	Dimension   Vector3 `json:"dimension" bson:"dimension"`
	AlignedAxis string  `json:"aligned_axis" bson:"aligned_axis"`
}

// BarcodeRelative carries the barcode's position relative to its owning
// item, once assigned.
type BarcodeRelative struct {
	Header   Header  `json:"header" bson:"header"`
	Position Vector3 `json:"position" bson:"position"`
	Dimension Vector3 `json:"dimension" bson:"dimension"`
	Side     Side    `json:"side" bson:"side"`
}

// Barcode is a canonical scanned barcode, attached to at most one item.
type Barcode struct {
	Meta     BarcodeMeta     `json:"meta" bson:"meta"`
	Absolute BarcodeAbsolute `json:"absolute" bson:"absolute"`
	Relative BarcodeRelative `json:"relative" bson:"relative"`
	ItemUUID *string         `json:"item_uuid" bson:"item_uuid"`
}

// BoundingBox computes the barcode's bounding box the same way an item's is
// computed: bottom-center position plus relative dimension along the
// aligned axis.
func (bc Barcode) BoundingBox() (Rectangle, error) {
	return geometry.BoundingBox(bc.Absolute.Position, bc.Absolute.AlignedAxis, bc.Relative.Dimension)
}
