package model

import "github.com/google/uuid"

// JobRequest is one client-requested manipulation, part of a BatchRequest.
type JobRequest struct {
	JobType         string  `json:"job_type"`
	Vendor          string  `json:"vendor"`
	UID             *string `json:"uid,omitempty"`
	DestinationUUID *string `json:"destination_uuid,omitempty"`
	RequestID       string  `json:"request_id"`
}

// BatchRequest is the client → core message body on `batch/request`.
type BatchRequest []JobRequest

// RobotBatchRequest is the core → robot message body on
// `robot/batch_request`.
type RobotBatchRequest struct {
	BatchID string     `json:"batch_id"`
	Jobs    []RobotJob `json:"jobs"`
}

// NewRobotBatchRequest wraps jobs into a batch with a fresh id.
func NewRobotBatchRequest(jobs []RobotJob) RobotBatchRequest {
	return RobotBatchRequest{BatchID: uuid.New().String(), Jobs: jobs}
}

// ResultHeader reports the outcome of a robot-side operation.
type ResultHeader struct {
	Success        bool   `json:"success"`
	ErrorCode      int    `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	SafeToContinue bool   `json:"safe_to_continue"`
}

// RobotBatchResponse is the robot → core message body on `batch/response`.
type RobotBatchResponse struct {
	BatchID string       `json:"batch_id"`
	Jobs    []RobotJob   `json:"jobs"`
	Header  ResultHeader `json:"header"`
}

// ScanRequest is the client → core message body on `scan/request`.
type ScanRequest struct {
	Vendor             string  `json:"vendor"`
	UserID             string  `json:"user_id"`
	StartHeight        float64 `json:"start_height"`
	EndHeight          float64 `json:"end_height"`
	HeightStep         float64 `json:"height_step"`
	AisleIndex         int     `json:"aisle_index"`
	WaypointStartIndex *int    `json:"waypoint_start_index,omitempty"`
	WaypointEndIndex   *int    `json:"waypoint_end_index,omitempty"`
	WaypointIndices    []int   `json:"waypoint_indices,omitempty"`
	OverwriteScanID    *string `json:"overwrite_scan_id,omitempty"`
	ScanID             string  `json:"scan_id"`
}

// RobotScanRequest is the core → robot message body on `robot/scan_request`.
type RobotScanRequest struct {
	ScanID             string  `json:"scan_id"`
	StartHeight        float64 `json:"start_height"`
	EndHeight          float64 `json:"end_height"`
	HeightStep         float64 `json:"height_step"`
	AisleIndex         int     `json:"aisle_index"`
	WaypointStartIndex int     `json:"waypoint_start_index"`
	WaypointEndIndex   int     `json:"waypoint_end_index"`
	WaypointIndices    []int   `json:"waypoint_indices"`
}

// RobotScanResponse is the robot → core message body on `scan/response`.
type RobotScanResponse struct {
	Header ResultHeader `json:"header"`
}

// ScanData is the robot → core message body on `scan/data`: one image's
// worth of raw partial detections plus the image itself.
type ScanData struct {
	Stamp           Timestamp      `json:"stamp"`
	ScanID          string         `json:"scan_id"`
	Side            Side           `json:"side"`
	Image           string         `json:"image"`
	AisleIndex      int            `json:"aisle_index"`
	ImageBottomLeft Vector2        `json:"image_bottom_left"`
	ImageTopRight   Vector2        `json:"image_top_right"`
	ImageFilename   string         `json:"image_filename"`
	PartialItems    []PartialItem  `json:"partial_items"`
	Barcodes        []PartialBarcode `json:"barcodes"`
}

// CompileScanDataRequest is the client → core message body on
// `scan/compile`.
type CompileScanDataRequest struct {
	Vendor               string   `json:"vendor"`
	UserID               string   `json:"user_id"`
	ItemType             *ItemType `json:"item_type,omitempty"`
	Side                 *Side    `json:"side,omitempty"`
	AisleIndex           *int     `json:"aisle_index,omitempty"`
	ScanID               string   `json:"scan_id"`
	ConfidenceThreshold  float64  `json:"confidence_threshold"`
	Force                bool     `json:"force"`
	Overwrite            bool     `json:"overwrite"`
}

// RenderScanRequest is the client → core message body on
// `inventory/render`.
type RenderScanRequest struct {
	Vendor   string    `json:"vendor"`
	UserID   string    `json:"user_id"`
	ItemType *ItemType `json:"item_type,omitempty"`
	Debug    bool      `json:"debug"`
}
