package main

import (
	"fmt"
	"log"

	"github.com/phinze/axispad/internal/config"
	"github.com/phinze/axispad/internal/coordinator"
	"github.com/phinze/axispad/internal/device/emulator"
	"github.com/phinze/axispad/internal/gesture"
	"github.com/spf13/cobra"
)

var recordPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the configured pads in an emulator window",
	RunE:  runEmulator,
}

func init() {
	runCmd.Flags().StringVar(&recordPath, "record", "", "write the session's pointer events to this gesture script")
}

func runEmulator(cmd *cobra.Command, args []string) error {
	log.Println("=== Axis Pad Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	emu := emulator.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err := emu.Open(); err != nil {
		return fmt.Errorf("opening emulator: %w", err)
	}

	coord, err := coordinator.New(emu, coordinator.Options{LogEvents: cfg.LogEvents})
	if err != nil {
		return err
	}
	if err := registerPads(coord, cfg); err != nil {
		return err
	}

	var rec *gesture.Recorder
	if recordPath != "" {
		rec = &gesture.Recorder{}
		if err := emu.AddPointerHandler(rec.Handle); err != nil {
			return fmt.Errorf("adding recorder: %w", err)
		}
		log.Printf("Recording gestures to %s", recordPath)
	}

	// Close the window on shutdown signals
	go func() {
		<-ctx.Done()
		if emu.IsOpen() {
			emu.Close()
		}
	}()

	coordDone := make(chan struct{})
	go func() {
		defer close(coordDone)
		log.Printf("Connected to: %s", emu.GetModelName())
		if err := coord.Start(ctx); err != nil {
			log.Printf("Coordinator error: %v", err)
		}
	}()

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		log.Printf("Emulator GUI error: %v", err)
	}
	cancel()
	<-coordDone
	stopCoordinator(coord)

	if rec != nil {
		first := cfg.Pads[0]
		bounds, _ := coord.Boundary(first.ID)
		if err := rec.Script(first, bounds).Write(recordPath); err != nil {
			return fmt.Errorf("writing recording: %w", err)
		}
		log.Printf("Wrote %d steps to %s", rec.Len(), recordPath)
	}
	return nil
}
