// Package router is the Router/Dispatcher module (spec.md §2/§4.4): it
// subscribes to every client/robot queue, validates each message body,
// invokes the matching handler, and publishes whatever result that handler
// produces. One goroutine per queue processes that queue's messages one at
// a time end to end; different queues run concurrently (spec.md §5's
// scheduling model).
package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/rubic/ouroboros/internal/broker"
	"github.com/rubic/ouroboros/internal/model"
	"github.com/rubic/ouroboros/internal/planner"
	"github.com/rubic/ouroboros/internal/render"
	"github.com/rubic/ouroboros/internal/response"
	"github.com/rubic/ouroboros/internal/scancompiler"
	"github.com/rubic/ouroboros/internal/scaningest"
	"github.com/rubic/ouroboros/internal/scanrequest"
)

// Router wires the broker's queues to the planner, response processor,
// scan compiler, scan ingest/request passthrough, and render stub.
type Router struct {
	bus      *broker.Broker
	planner  *planner.Planner
	response *response.Processor
	compiler *scancompiler.Compiler
	ingest   *scaningest.Ingester
	scans    *scanrequest.Processor
	renderer render.Renderer
	log      zerolog.Logger
}

// New builds a Router from its collaborators.
func New(bus *broker.Broker, p *planner.Planner, r *response.Processor, c *scancompiler.Compiler, ing *scaningest.Ingester, sr *scanrequest.Processor, renderer render.Renderer, log zerolog.Logger) *Router {
	return &Router{
		bus:      bus,
		planner:  p,
		response: r,
		compiler: c,
		ingest:   ing,
		scans:    sr,
		renderer: renderer,
		log:      log.With().Str("component", "router").Logger(),
	}
}

// Run subscribes to every queue and blocks until ctx is cancelled. Each
// subscription is serviced by its own goroutine.
func (r *Router) Run(ctx context.Context) error {
	subs := []struct {
		queue   string
		handler func(context.Context, amqp.Delivery) error
	}{
		{broker.QueueBatchRequest, r.handleBatchRequest},
		{broker.QueueBatchResponse, r.handleBatchResponse},
		{broker.QueueScanRequest, r.handleScanRequest},
		{broker.QueueScanResponse, r.handleScanResponse},
		{broker.QueueScanData, r.handleScanData},
		{broker.QueueScanCompile, r.handleScanCompile},
		{broker.QueueInventoryRender, r.handleRenderRequest},
	}

	for _, sub := range subs {
		deliveries, err := r.bus.Subscribe(sub.queue)
		if err != nil {
			return fmt.Errorf("router: subscribe %s: %w", sub.queue, err)
		}
		go r.serve(ctx, sub.queue, deliveries, sub.handler)
	}

	<-ctx.Done()
	return ctx.Err()
}

// serve drains one queue's deliveries one message at a time end to end,
// matching spec.md §5's per-queue worker model. A handler error is logged
// and the message nacked without requeue; it is never retried silently.
func (r *Router) serve(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handle func(context.Context, amqp.Delivery) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := handle(ctx, d); err != nil {
				r.log.Error().Err(err).Str("queue", queue).Msg("handler failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (r *Router) handleBatchRequest(ctx context.Context, d amqp.Delivery) error {
	var req model.BatchRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		return fmt.Errorf("malformed batch/request: %w", err)
	}
	batch, err := r.planner.Plan(ctx, req)
	if err != nil {
		return err
	}
	body, err := json.Marshal(model.NewRobotBatchRequest(batch.Jobs))
	if err != nil {
		return err
	}
	return r.bus.Publish(ctx, broker.QueueRobotBatchRequest, body)
}

func (r *Router) handleBatchResponse(ctx context.Context, d amqp.Delivery) error {
	var resp model.RobotBatchResponse
	if err := json.Unmarshal(d.Body, &resp); err != nil {
		return fmt.Errorf("malformed batch/response: %w", err)
	}
	updates := r.response.ProcessBatch(ctx, resp)
	if len(updates) == 0 {
		return nil
	}
	body, err := json.Marshal(updates)
	if err != nil {
		return err
	}
	return r.bus.Publish(ctx, broker.QueueInventoryUpdates, body)
}

func (r *Router) handleScanRequest(ctx context.Context, d amqp.Delivery) error {
	var req model.ScanRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		return fmt.Errorf("malformed scan/request: %w", err)
	}
	robotReq := r.scans.ProcessRequest(req)
	body, err := json.Marshal(robotReq)
	if err != nil {
		return err
	}
	return r.bus.Publish(ctx, broker.QueueRobotScanRequest, body)
}

func (r *Router) handleScanResponse(_ context.Context, d amqp.Delivery) error {
	var resp model.RobotScanResponse
	if err := json.Unmarshal(d.Body, &resp); err != nil {
		return fmt.Errorf("malformed scan/response: %w", err)
	}
	r.scans.ProcessResponse(resp)
	return nil
}

func (r *Router) handleScanData(ctx context.Context, d amqp.Delivery) error {
	var data model.ScanData
	if err := json.Unmarshal(d.Body, &data); err != nil {
		return fmt.Errorf("malformed scan/data: %w", err)
	}
	return r.ingest.Ingest(ctx, data)
}

func (r *Router) handleScanCompile(ctx context.Context, d amqp.Delivery) error {
	var req model.CompileScanDataRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		return fmt.Errorf("malformed scan/compile: %w", err)
	}
	return r.compiler.Run(ctx, req)
}

func (r *Router) handleRenderRequest(ctx context.Context, d amqp.Delivery) error {
	var req model.RenderScanRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		return fmt.Errorf("malformed inventory/render: %w", err)
	}
	if err := render.Validate(req); err != nil {
		return err
	}
	return r.renderer.Render(ctx, req)
}
