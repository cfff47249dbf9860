package planner

import "errors"

// Sentinel errors returned by the batch planner, matching spec.md §7's
// error kinds for the planning path. All of them abort the entire batch:
// the planner does not partially emit a batch on failure.
var (
	// ErrMultipleStacked is returned when a fetch target has more than one
	// item resting on it; the planner only knows how to unstack one.
	ErrMultipleStacked = errors.New("planner: target has more than one item stacked on it")
	// ErrDoubleStacked is returned when an item above a fetch target itself
	// has something stacked on it.
	ErrDoubleStacked = errors.New("planner: stacked item is itself stacked on")
	// ErrInvalidDestination is returned when a requested or resolved
	// destination is not an available empty in inventory.
	ErrInvalidDestination = errors.New("planner: destination is not a valid empty")
	// ErrInvalidSource is returned when the item to store is not on the
	// robot and not anticipated via fetched_items.
	ErrInvalidSource = errors.New("planner: source item is not on the robot")
	// ErrMissingItemUUID is returned when a designated job type has no
	// configured item_uuid.
	ErrMissingItemUUID = errors.New("planner: job type has no item_uuid configured")
	// ErrNoEmptyFound is returned when find_empty_for_store has no
	// candidate empty large enough for the target item.
	ErrNoEmptyFound = errors.New("planner: no empty large enough for target item")
	// ErrUnknownGenericType is returned when a JobType names a generic_type
	// the planner has no builder for.
	ErrUnknownGenericType = errors.New("planner: unknown job type generic_type")
)
