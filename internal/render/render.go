// Package render is the wiring point for `inventory/render` requests
// (spec.md §3 supplemented feature 3). Rendering pixel composition
// (render_inventory.py's image stacking) is an explicit non-goal; this
// package validates the request and exposes the interface a real renderer
// would satisfy, without implementing one.
package render

import (
	"context"
	"errors"

	"github.com/rubic/ouroboros/internal/model"
)

// ErrNotImplemented is returned by the default Renderer: rasterization is
// out of scope.
var ErrNotImplemented = errors.New("render: rendering is not implemented")

// Renderer composes the current inventory (and, in debug mode, raw partial
// detections) into a visual render, matching RenderInventory.run in the
// original system.
type Renderer interface {
	Render(ctx context.Context, req model.RenderScanRequest) error
}

// NullRenderer is the default Renderer: it always returns
// ErrNotImplemented. The router still validates and dispatches
// RenderScanRequest messages to whatever Renderer is configured.
type NullRenderer struct{}

// Render always fails with ErrNotImplemented.
func (NullRenderer) Render(ctx context.Context, req model.RenderScanRequest) error {
	return ErrNotImplemented
}

// Validate checks the structural preconditions a RenderScanRequest must
// satisfy before being handed to a Renderer: a vendor and user must be
// named, matching the client-identification fields every handler requires.
func Validate(req model.RenderScanRequest) error {
	if req.Vendor == "" {
		return errors.New("render: missing vendor")
	}
	if req.UserID == "" {
		return errors.New("render: missing user_id")
	}
	return nil
}
