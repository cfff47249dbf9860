package model

import (
	"github.com/google/uuid"

	"github.com/rubic/ouroboros/internal/geometry"
)

// ItemType enumerates the kinds of inventory entity.
type ItemType string

const (
	ItemTypeBox      ItemType = "box"
	ItemTypeEmpty    ItemType = "empty"
	ItemTypeConveyor ItemType = "conveyor"
)

// Location is the XOR location of an item: either resting in inventory or
// currently held by the robot.
type Location string

const (
	LocationInventory Location = "inventory"
	LocationRobot      Location = "robot"
)

// Side is the shelf face an item presents to the robot.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ItemMeta carries the classification and lifecycle fields of an item.
type ItemMeta struct {
	ItemType    ItemType `json:"item_type" bson:"item_type"`
	Location    Location `json:"location" bson:"location"`
	Destination *string  `json:"destination" bson:"destination"`
	Available   bool     `json:"available" bson:"available"`
	AisleIndex  int      `json:"aisle_index" bson:"aisle_index"`
	ScanID      string   `json:"scan_id" bson:"scan_id"`
	Stack       []string `json:"stack" bson:"stack"`
}

// ItemAbsolute carries the item's position and pose in the world frame.
type ItemAbsolute struct {
	Position    Vector3 `json:"position" bson:"position"`
	Dimension   Vector3 `json:"dimension" bson:"dimension"`
	AlignedAxis string  `json:"aligned_axis" bson:"aligned_axis"`
	Waypoint    *string `json:"waypoint" bson:"waypoint"`
	DepthIndex  *int    `json:"depth_index" bson:"depth_index"`
	StackIndex  *int    `json:"stack_index" bson:"stack_index"`
}

// ItemRelative carries the item's footprint relative to its shelf face.
type ItemRelative struct {
	Dimension Vector3 `json:"dimension" bson:"dimension"`
	Side      Side    `json:"side" bson:"side"`
}

// Item is a canonical inventory entity: a box, an empty region of shelf
// space, or a conveyor placeholder.
type Item struct {
	UUID     string       `json:"uuid" bson:"uuid"`
	Meta     ItemMeta     `json:"meta" bson:"meta"`
	Absolute ItemAbsolute `json:"absolute" bson:"absolute"`
	Relative ItemRelative `json:"relative" bson:"relative"`
	Barcodes []Barcode    `json:"barcodes" bson:"barcodes"`

	// PrimaryBarcode is populated only in transit to/from the robot; it is
	// never persisted as part of the inventory document.
	PrimaryBarcode *Barcode `json:"primary_barcode,omitempty" bson:"-"`
}

// NewItemUUID returns a fresh item identifier.
func NewItemUUID() string {
	return uuid.New().String()
}

// BoundingBox computes the item's bounding box from its absolute position
// and relative dimension (spec.md §3's bounding box rule). It is a free
// function application, not a cached property: callers recompute it
// whenever the underlying fields may have changed.
func (it Item) BoundingBox() (Rectangle, error) {
	return geometry.BoundingBox(it.Absolute.Position, it.Absolute.AlignedAxis, it.Relative.Dimension)
}

// IsEmpty reports whether the item is an empty shelf region.
func (it Item) IsEmpty() bool {
	return it.Meta.ItemType == ItemTypeEmpty
}

// HasPrimaryBarcode reports whether the item carries at least one barcode of
// a primary type (GS1-128 or Code 128).
func (it Item) HasPrimaryBarcode() bool {
	for _, bc := range it.Barcodes {
		if bc.Meta.BarcodeType.IsPrimary() {
			return true
		}
	}
	return false
}
