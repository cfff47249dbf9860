package model

import "github.com/google/uuid"

// RobotJobType enumerates the four kinds of low-level robot manipulation.
type RobotJobType string

const (
	JobFetchInventory   RobotJobType = "FETCH_INVENTORY"
	JobStoreInventory   RobotJobType = "STORE_INVENTORY"
	JobFetchDesignated  RobotJobType = "FETCH_DESIGNATED"
	JobStoreDesignated  RobotJobType = "STORE_DESIGNATED"
)

// RobotJob is one ordered step of a robot batch: fetch or store an item,
// optionally against a destination, optionally reserving a future empty's
// uuid.
type RobotJob struct {
	JobID        string       `json:"job_id" bson:"job_id"`
	JobType      RobotJobType `json:"job_type" bson:"job_type"`
	Item         Item         `json:"item" bson:"item"`
	Destination  *Item        `json:"destination,omitempty" bson:"destination,omitempty"`
	FutureUUID   *string      `json:"future_uuid,omitempty" bson:"future_uuid,omitempty"`
	Attempted    *bool        `json:"attempted,omitempty" bson:"attempted,omitempty"`
	Success      *bool        `json:"success,omitempty" bson:"success,omitempty"`
	ErrorCode    *int         `json:"error_code,omitempty" bson:"error_code,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty" bson:"error_message,omitempty"`
}

// NewJobID returns a fresh robot job identifier.
func NewJobID() string {
	return uuid.New().String()
}

// RobotBatch is the persisted record of one client batch request's ordered
// jobs.
type RobotBatch struct {
	BatchID string     `json:"batch_id" bson:"batch_id"`
	Jobs    []RobotJob `json:"jobs" bson:"jobs"`
}

// NewBatchID returns a fresh robot batch identifier.
func NewBatchID() string {
	return uuid.New().String()
}

// JobType is read-only configuration, keyed by (vendor, job_type), that
// tells the planner which generic builder to invoke and (for designated
// jobs) which fixed item to target.
type JobType struct {
	JobType       string    `json:"job_type" bson:"job_type"`
	GenericType   string    `json:"generic_type" bson:"generic_type"`
	Vendor        string    `json:"vendor" bson:"vendor"`
	Predetermined bool      `json:"predetermined" bson:"predetermined"`
	ItemUUID      *string   `json:"item_uuid,omitempty" bson:"item_uuid,omitempty"`
}
