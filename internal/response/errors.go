package response

import "errors"

// Sentinel errors returned by the response processor, matching spec.md §7's
// error kinds for the reconciliation path. A failing job does not stop the
// rest of the batch; the batch's aggregate updates simply exclude it.
var (
	// ErrMissingPrimaryBarcode is returned when a job's item has no primary
	// barcode populated before reconciliation begins.
	ErrMissingPrimaryBarcode = errors.New("response: job item has no primary barcode")
	// ErrDuplicateItem is returned when a fetch-designated item's barcode
	// data collides with an existing inventory barcode.
	ErrDuplicateItem = errors.New("response: barcode data collides with existing inventory item")
	// ErrNotInventory is returned when a fetch-inventory response targets an
	// item the store does not have at location=inventory.
	ErrNotInventory = errors.New("response: item is not in inventory")
	// ErrUnknownJobType is returned when a RobotJob names a job_type the
	// processor has no handler for.
	ErrUnknownJobType = errors.New("response: unknown job_type")
)
