// Package scanrequest implements the scan request/response passthrough
// (spec.md §3 supplemented feature 2): a client ScanRequest is translated
// into the robot-facing RobotScanRequest, and the robot's completion
// callback is logged, mirroring process_scan_request.py and
// process_scan_response.py.
package scanrequest

import (
	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/model"
)

// Processor translates and logs scan requests/responses.
type Processor struct {
	log zerolog.Logger
}

// New builds a Processor.
func New(log zerolog.Logger) *Processor {
	return &Processor{log: log.With().Str("component", "scanrequest").Logger()}
}

// ProcessRequest strips client-only fields from req and applies
// overwrite_scan_id, returning the RobotScanRequest to publish on
// `robot/scan_request`.
func (p *Processor) ProcessRequest(req model.ScanRequest) model.RobotScanRequest {
	p.log.Info().Str("scan_id", req.ScanID).Str("vendor", req.Vendor).Msg("received scan request")

	scanID := req.ScanID
	if req.OverwriteScanID != nil {
		scanID = *req.OverwriteScanID
	}

	robotReq := model.RobotScanRequest{
		ScanID:      scanID,
		StartHeight: req.StartHeight,
		EndHeight:   req.EndHeight,
		HeightStep:  req.HeightStep,
		AisleIndex:  req.AisleIndex,
	}
	if req.WaypointStartIndex != nil {
		robotReq.WaypointStartIndex = *req.WaypointStartIndex
	}
	if req.WaypointEndIndex != nil {
		robotReq.WaypointEndIndex = *req.WaypointEndIndex
	}
	robotReq.WaypointIndices = req.WaypointIndices

	p.log.Info().Str("scan_id", robotReq.ScanID).Msg("sending scan request to robot")
	return robotReq
}

// ProcessResponse logs the robot's scan-completion callback. The original
// system does nothing else with it; there is no downstream publish.
func (p *Processor) ProcessResponse(resp model.RobotScanResponse) {
	p.log.Info().Bool("success", resp.Header.Success).Str("error", resp.Header.ErrorMessage).Msg("received scan completion callback")
}
