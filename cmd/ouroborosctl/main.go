// Command ouroborosctl publishes one-shot messages onto the configured
// broker, the Go equivalent of ouroboros/tools/send_batch_request.py,
// send_compile_request.py, send_render_request.py, and
// send_scan_request.py.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rubic/ouroboros/internal/broker"
	"github.com/rubic/ouroboros/internal/config"
	"github.com/rubic/ouroboros/internal/model"
)

var amqpURL string

var rootCmd = &cobra.Command{
	Use:   "ouroborosctl",
	Short: "Publish one-shot inventory coordination requests",
	Long: `ouroborosctl publishes batch, scan, compile, and render requests
onto the message broker, for manual testing against a running
ouroboros-core process.`,
}

var batchCmd = &cobra.Command{
	Use:   "batch [vendor] [job_type]",
	Short: "Publish a BatchRequest with a single JobRequest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vendor, jobType := args[0], args[1]
		uid, _ := cmd.Flags().GetString("uid")
		destination, _ := cmd.Flags().GetString("destination")

		req := model.JobRequest{Vendor: vendor, JobType: jobType}
		if uid != "" {
			req.UID = &uid
		}
		if destination != "" {
			req.DestinationUUID = &destination
		}
		return publish(broker.QueueBatchRequest, model.BatchRequest{req})
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [vendor] [user_id] [scan_id] [aisle_index]",
	Short: "Publish a ScanRequest",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		aisle, err := parseInt(args[3])
		if err != nil {
			return err
		}
		startHeight, _ := cmd.Flags().GetFloat64("start-height")
		endHeight, _ := cmd.Flags().GetFloat64("end-height")
		heightStep, _ := cmd.Flags().GetFloat64("height-step")

		req := model.ScanRequest{
			Vendor:      args[0],
			UserID:      args[1],
			ScanID:      args[2],
			AisleIndex:  aisle,
			StartHeight: startHeight,
			EndHeight:   endHeight,
			HeightStep:  heightStep,
		}
		return publish(broker.QueueScanRequest, req)
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile [vendor] [user_id] [scan_id]",
	Short: "Publish a CompileScanDataRequest",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		confidence, _ := cmd.Flags().GetFloat64("confidence")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		force, _ := cmd.Flags().GetBool("force")

		req := model.CompileScanDataRequest{
			Vendor:              args[0],
			UserID:              args[1],
			ScanID:              args[2],
			ConfidenceThreshold: confidence,
			Overwrite:           overwrite,
			Force:               force,
		}
		return publish(broker.QueueScanCompile, req)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [vendor] [user_id]",
	Short: "Publish a RenderScanRequest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		req := model.RenderScanRequest{Vendor: args[0], UserID: args[1], Debug: debug}
		return publish(broker.QueueInventoryRender, req)
	},
}

func parseInt(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return v, nil
}

// publish opens a connection to the broker, sends one JSON-encoded body,
// and closes it. ouroborosctl is a one-shot publisher: it does not hold a
// long-lived connection the way ouroboros-core does.
func publish(queue string, body any) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	if amqpURL != "" {
		settings.AMQPConnStr = amqpURL
	}

	bus, err := broker.Dial(settings.AMQPConnStr)
	if err != nil {
		return err
	}
	defer bus.Close()

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	if err := bus.Publish(context.Background(), queue, data); err != nil {
		return err
	}
	fmt.Printf("Published to %s: %s\n", queue, data)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&amqpURL, "amqp-url", "", "override AMQP_SSL_CONN_STR")

	batchCmd.Flags().String("uid", "", "barcode uid of the item to act on")
	batchCmd.Flags().String("destination", "", "uuid of an explicit destination item")

	scanCmd.Flags().Float64("start-height", 0, "scan start height")
	scanCmd.Flags().Float64("end-height", 0, "scan end height")
	scanCmd.Flags().Float64("height-step", 0, "scan height step")

	compileCmd.Flags().Float64("confidence", 0.5, "confidence threshold")
	compileCmd.Flags().Bool("overwrite", false, "clear prior non-conveyor inventory first")
	compileCmd.Flags().Bool("force", false, "set the request's force field (the compiler does not read it)")

	renderCmd.Flags().Bool("debug", false, "render raw partial detections instead of compiled inventory")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
