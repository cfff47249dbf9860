package scancompiler

import (
	"math"

	"github.com/rubic/ouroboros/internal/geometry"
	"github.com/rubic/ouroboros/internal/model"
)

// MergeBarcodes clusters a same-(scan,aisle,side) batch of partial barcode
// detections by (data, barcode_type), then within each batch by pairwise 3D
// Euclidean distance under mergeDistance, into canonical Barcodes. Distinct
// data values never merge with each other even if spatially close.
func MergeBarcodes(barcodes []model.PartialBarcode) ([]model.Barcode, error) {
	batches := make(map[string][]model.PartialBarcode)
	var order []string
	for _, bc := range barcodes {
		key := string(bc.Meta.BarcodeType) + "\x00" + bc.Meta.Data
		if _, ok := batches[key]; !ok {
			order = append(order, key)
		}
		batches[key] = append(batches[key], bc)
	}

	var merged []model.Barcode
	for _, key := range order {
		batch := batches[key]
		clusters := clusterByDistance(batch)
		for _, cluster := range clusters {
			bc, err := canonicalBarcode(cluster)
			if err != nil {
				return nil, err
			}
			merged = append(merged, bc)
		}
	}
	return merged, nil
}

func clusterByDistance(batch []model.PartialBarcode) [][]model.PartialBarcode {
	adjacency := make([][]int, len(batch))
	for i := 0; i < len(batch); i++ {
		for j := i + 1; j < len(batch); j++ {
			if euclidean3(batch[i].Absolute.Position, batch[j].Absolute.Position) < mergeDistance {
				adjacency[i] = append(adjacency[i], j)
				adjacency[j] = append(adjacency[j], i)
			}
		}
	}

	components := connectedComponents(adjacency)
	out := make([][]model.PartialBarcode, len(components))
	for i, component := range components {
		members := make([]model.PartialBarcode, len(component))
		for j, idx := range component {
			members[j] = batch[idx]
		}
		out[i] = members
	}
	return out
}

func euclidean3(a, b model.Vector3) float64 {
	av, bv := a.ToArray(), b.ToArray()
	sum := 0.0
	for i := range av {
		d := av[i] - bv[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func canonicalBarcode(cluster []model.PartialBarcode) (model.Barcode, error) {
	first := cluster[0]
	var union model.Rectangle
	for i, bc := range cluster {
		bb, err := bc.BoundingBox()
		if err != nil {
			return model.Barcode{}, err
		}
		if i == 0 {
			union = bb
		} else {
			union.BottomLeft.X = minFloat(union.BottomLeft.X, bb.BottomLeft.X)
			union.BottomLeft.Y = minFloat(union.BottomLeft.Y, bb.BottomLeft.Y)
			union.TopRight.X = maxFloat(union.TopRight.X, bb.TopRight.X)
			union.TopRight.Y = maxFloat(union.TopRight.Y, bb.TopRight.Y)
		}
	}

	center := geometry.BottomCenter(union)
	position := model.Vector3{X: first.Absolute.Position.X, Y: center.Y, Z: first.Absolute.Position.Z}
	switch first.Absolute.AlignedAxis {
	case "x":
		position.X = center.X
	case "z":
		position.Z = center.X
	}

	aisleIndex := first.Meta.AisleIndex
	return model.Barcode{
		Meta: model.BarcodeMeta{
			BarcodeType: first.Meta.BarcodeType,
			Data:        first.Meta.Data,
			AisleIndex:  &aisleIndex,
		},
		Absolute: model.BarcodeAbsolute{
			Position:    position,
			Dimension:   model.Vector3{X: union.Width(), Y: union.Height(), Z: first.Absolute.Dimension.Z},
			AlignedAxis: first.Absolute.AlignedAxis,
		},
		Relative: model.BarcodeRelative{
			Header: first.Relative.Header,
			Side:   first.Relative.Side,
		},
	}, nil
}

// CombineBarcodes assigns each barcode to the first item (in the given
// order) whose bounding box contains both of the barcode's bottom-left and
// top-right corners, appending the barcode to that item's Barcodes and
// pointing the barcode's ItemUUID back at it. Barcodes matching no item are
// left unassigned.
func CombineBarcodes(items []model.Item, barcodes []model.Barcode) error {
	bboxes := make([]model.Rectangle, len(items))
	for i, it := range items {
		bb, err := it.BoundingBox()
		if err != nil {
			return err
		}
		bboxes[i] = bb
	}

	for bi := range barcodes {
		bb, err := barcodes[bi].BoundingBox()
		if err != nil {
			return err
		}
		for ii := range items {
			if geometry.ContainsPoint(bboxes[ii], bb.BottomLeft.X, bb.BottomLeft.Y) &&
				geometry.ContainsPoint(bboxes[ii], bb.TopRight.X, bb.TopRight.Y) {
				uuid := items[ii].UUID
				barcodes[bi].ItemUUID = &uuid
				items[ii].Barcodes = append(items[ii].Barcodes, barcodes[bi])
				break
			}
		}
	}
	return nil
}
