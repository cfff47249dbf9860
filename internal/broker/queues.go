// Package broker is a thin transport adapter over RabbitMQ for the
// hierarchical, `/`-delimited queue names the router and planner exchange
// messages on (spec.md §6). It does not know about job/scan/render
// semantics; it only moves JSON bodies between a topic exchange and named
// queues, mirroring faststream's RabbitBroker in the original system.
package broker

// Queue names, matching spec.md §6's external interface table.
const (
	QueueBatchRequest      = "batch/request"
	QueueBatchResponse     = "batch/response"
	QueueRobotBatchRequest = "robot/batch_request"
	QueueRobotScanRequest  = "robot/scan_request"
	QueueScanRequest       = "scan/request"
	QueueScanResponse      = "scan/response"
	QueueScanData          = "scan/data"
	QueueScanCompile       = "scan/compile"
	QueueInventoryRender   = "inventory/render"
	QueueInventoryUpdates  = "inventory/updates"
)

// exchange is the single topic exchange every queue binds to, keyed by its
// own name as routing key.
const exchange = "ouroboros"
