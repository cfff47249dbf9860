// Package scancompiler turns the noisy per-image partial detections a scan
// produces into the canonical Items and Barcodes the rest of the system
// operates on: connected-component clustering on near-duplicate partials,
// union-bbox construction, stack inference, and barcode-to-item assignment.
package scancompiler

import (
	"errors"
	"sort"

	"github.com/rubic/ouroboros/internal/geometry"
	"github.com/rubic/ouroboros/internal/model"
)

// Clustering thresholds fixed by the domain.
const (
	// distanceThreshold bounds the x-sweep: once two partials, sorted by
	// absolute x position, are farther apart than this, no later partial
	// can be a merge candidate for the earlier one either.
	distanceThreshold = 1.5
	// mergeThreshold is the fraction of either rectangle's own area the
	// pairwise overlap must exceed for two partial items to cluster.
	mergeThreshold = 0.4
	// mergeDistance is the 3D Euclidean distance under which two partial
	// barcodes of the same (data, barcode_type) are considered the same
	// physical barcode.
	mergeDistance = 0.1
)

// ErrInconsistentPartials is returned when a cluster of partial items
// disagrees on a field that every member of one physical object must share.
var ErrInconsistentPartials = errors.New("scancompiler: inconsistent partial item fields")

// ErrEmptyCluster is returned by fromPartialItems on an empty cluster; it
// indicates a bug in the clustering step, not a data problem.
var ErrEmptyCluster = errors.New("scancompiler: empty partial item cluster")

// MergePartialItems clusters a same-(scan,aisle,side,item_type) batch of
// partial detections, sorted by absolute x position, into canonical Items.
// Each returned item's meta.stack is populated from the other items in the
// same call, matching the single-aisle/side/type scope the batch was
// queried under.
func MergePartialItems(items []model.PartialItem) ([]model.Item, error) {
	sorted := make([]model.PartialItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Absolute.Position.X < sorted[j].Absolute.Position.X
	})

	bboxes := make([]model.Rectangle, len(sorted))
	for i, p := range sorted {
		bb, err := p.BoundingBox()
		if err != nil {
			return nil, err
		}
		bboxes[i] = bb
	}

	adjacency := make([][]int, len(sorted))
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Absolute.Position.X-sorted[i].Absolute.Position.X > distanceThreshold {
				break
			}
			overlap := geometry.OverlapArea(bboxes[i], bboxes[j])
			if overlap <= 0 {
				continue
			}
			areaI := geometry.Area(bboxes[i])
			areaJ := geometry.Area(bboxes[j])
			if overlap > mergeThreshold*areaI || overlap > mergeThreshold*areaJ {
				adjacency[i] = append(adjacency[i], j)
				adjacency[j] = append(adjacency[j], i)
			}
		}
	}

	clusters := connectedComponents(adjacency)

	canonical := make([]model.Item, 0, len(clusters))
	for _, cluster := range clusters {
		members := make([]model.PartialItem, len(cluster))
		for i, idx := range cluster {
			members[i] = sorted[idx]
		}
		item, err := fromPartialItems(members)
		if err != nil {
			return nil, err
		}
		canonical = append(canonical, item)
	}

	sort.Slice(canonical, func(i, j int) bool {
		bi, _ := canonical[i].BoundingBox()
		bj, _ := canonical[j].BoundingBox()
		if bi.BottomLeft.X != bj.BottomLeft.X {
			return bi.BottomLeft.X < bj.BottomLeft.X
		}
		return bi.BottomLeft.Y < bj.BottomLeft.Y
	})

	stacks, err := GenerateItemStack(canonical)
	if err != nil {
		return nil, err
	}
	for i := range canonical {
		canonical[i].Meta.Stack = stacks[canonical[i].UUID]
	}

	return canonical, nil
}

// connectedComponents returns the connected components of an undirected
// graph given as an adjacency list, via iterative DFS.
func connectedComponents(adjacency [][]int) [][]int {
	visited := make([]bool, len(adjacency))
	var components [][]int

	for start := range adjacency {
		if visited[start] {
			continue
		}
		var component []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			n := len(stack) - 1
			node := stack[n]
			stack = stack[:n]
			component = append(component, node)
			for _, next := range adjacency[node] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}
	return components
}

// fromPartialItems builds one canonical Item from a cluster of partials that
// all describe the same physical object. Every member must agree on
// aligned axis, aisle index, item type, and scan id. The member with the
// largest bounding box is treated as the "ideal" detection and donates the
// item's side; the item's footprint is the union of every member's bbox.
func fromPartialItems(cluster []model.PartialItem) (model.Item, error) {
	if len(cluster) == 0 {
		return model.Item{}, ErrEmptyCluster
	}

	first := cluster[0]
	for _, p := range cluster[1:] {
		if p.Absolute.AlignedAxis != first.Absolute.AlignedAxis ||
			p.Meta.AisleIndex != first.Meta.AisleIndex ||
			p.Meta.ItemType != first.Meta.ItemType ||
			p.Meta.ScanID != first.Meta.ScanID {
			return model.Item{}, ErrInconsistentPartials
		}
	}

	ideal := cluster[0]
	idealArea := -1.0
	var union model.Rectangle
	for i, p := range cluster {
		bb, err := p.BoundingBox()
		if err != nil {
			return model.Item{}, err
		}
		if i == 0 {
			union = bb
		} else {
			union.BottomLeft.X = minFloat(union.BottomLeft.X, bb.BottomLeft.X)
			union.BottomLeft.Y = minFloat(union.BottomLeft.Y, bb.BottomLeft.Y)
			union.TopRight.X = maxFloat(union.TopRight.X, bb.TopRight.X)
			union.TopRight.Y = maxFloat(union.TopRight.Y, bb.TopRight.Y)
		}
		if area := geometry.Area(bb); area > idealArea {
			idealArea = area
			ideal = p
		}
	}

	center := geometry.BottomCenter(union)
	position := model.Vector3{
		X: ideal.Absolute.Position.X,
		Y: center.Y,
		Z: ideal.Absolute.Position.Z,
	}
	switch first.Absolute.AlignedAxis {
	case "x":
		position.X = center.X
	case "z":
		position.Z = center.X
	}

	return model.Item{
		UUID: model.NewItemUUID(),
		Meta: model.ItemMeta{
			ItemType:   first.Meta.ItemType,
			Location:   model.LocationInventory,
			Available:  true,
			AisleIndex: first.Meta.AisleIndex,
			ScanID:     first.Meta.ScanID,
			Stack:      nil,
		},
		Absolute: model.ItemAbsolute{
			Position:    position,
			Dimension:   model.Vector3{X: union.Width(), Y: union.Height(), Z: ideal.Absolute.Dimension.Z},
			AlignedAxis: first.Absolute.AlignedAxis,
		},
		Relative: model.ItemRelative{
			Dimension: model.Vector3{X: union.Width(), Y: union.Height(), Z: ideal.Relative.Dimension.Z},
			Side:      ideal.Relative.Side,
		},
	}, nil
}

// GenerateItemStack reports, for every item, the uuids of the items
// directly resting on top of it, via the pairwise IsStackedOn test. It is
// exported for reuse by the response processor's post-store stack
// recomputation (spec.md §4.5).
func GenerateItemStack(items []model.Item) (map[string][]string, error) {
	bboxes := make([]model.Rectangle, len(items))
	for i, it := range items {
		bb, err := it.BoundingBox()
		if err != nil {
			return nil, err
		}
		bboxes[i] = bb
	}

	stacks := make(map[string][]string, len(items))
	for i := range items {
		for j := range items {
			if i == j {
				continue
			}
			if geometry.IsStackedOn(bboxes[j], bboxes[i]) {
				stacks[items[i].UUID] = append(stacks[items[i].UUID], items[j].UUID)
			}
		}
	}
	return stacks, nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
