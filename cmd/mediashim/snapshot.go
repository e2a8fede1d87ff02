package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/mediashim/pkg/capture"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Grab one frame from the camera",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetDuration("timeout"))
		defer cancel()

		width, height := cfg.GetInt("width"), cfg.GetInt("height")
		m := capture.New()
		defer m.Close()

		sink := capture.NewVideoSink(nil)
		select {
		case err := <-m.Init(cfg.GetBool("audio"), width, height, sink):
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return fmt.Errorf("waiting for the camera: %w", ctx.Err())
		}

		// the stream plays before its first frame is decoded
		for {
			if _, ok := sink.CurrentFrame(); ok {
				break
			}
			select {
			case <-time.After(10 * time.Millisecond):
			case <-ctx.Done():
				return fmt.Errorf("waiting for the first frame: %w", ctx.Err())
			}
		}

		data, err := m.GetImageData(ctx)
		if err != nil {
			return err
		}
		return writePNG(cfg.GetString("out"), data.Image())
	},
}

func init() {
	snapshotCmd.Flags().Bool("audio", false, "also request a microphone track")
	snapshotCmd.Flags().Duration("timeout", 10*time.Second, "how long to wait for the camera")
}
