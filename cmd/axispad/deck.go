package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/phinze/axispad/internal/config"
	"github.com/phinze/axispad/internal/coordinator"
	"github.com/phinze/axispad/internal/device"
	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Drive the configured pads from a Stream Deck touch strip",
	RunE:  runDeck,
}

func runDeck(cmd *cobra.Command, args []string) error {
	log.Println("=== Axis Pad Deck ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	wakeCh := wakeSignals()

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, wakeCh)
		if dev == nil {
			// Context cancelled
			break
		}

		// Check context before starting - avoid race where device connects after shutdown requested
		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// Drain any stale wake signals that accumulated while waiting for the
		// device, so they do not tear the new connection straight down.
	drainWake:
		for {
			select {
			case <-wakeCh:
				log.Println("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// USB enumeration may not be complete even after GetDevice succeeds.
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, cfg, dev, wakeCh)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
	return nil
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck device with a timeout.
// Returns the device if successful, nil otherwise. The timeout prevents blocking indefinitely
// when the USB subsystem is in a bad state.
func tryGetDeviceWithTimeout(timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck with a touch strip until one
// is available. Wake signals trigger an immediate retry.
func waitForHardwareDevice(ctx context.Context, wakeCh <-chan struct{}) device.Surface {
	const deviceTimeout = 5 * time.Second

	openStrip := func() device.Surface {
		dev := tryGetDeviceWithTimeout(deviceTimeout)
		if dev == nil {
			return nil
		}
		if !dev.GetTouchStripSupported() {
			log.Printf("%s has no touch strip, ignoring", dev.GetModelName())
			dev.Close()
			return nil
		}
		return device.NewHardware(dev)
	}

	if dev := openStrip(); dev != nil {
		return dev
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// After wake, USB devices may take several seconds to enumerate.
			log.Println("Wake signal received, probing for device...")
			for i := 0; i < 10; i++ {
				if dev := openStrip(); dev != nil {
					log.Println("Device connected!")
					return dev
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(500 * time.Millisecond):
				}
			}
			log.Println("Device not found after wake, resuming polling...")
		case <-time.After(2 * time.Second):
		}

		if dev := openStrip(); dev != nil {
			log.Println("Device connected!")
			return dev
		}
	}
}

// runWithDevice runs the coordinator on the strip until disconnect, wake, or context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Surface, wakeCh <-chan struct{}) {
	log.Printf("Connected to: %s", dev.GetModelName())
	dev.SetBrightness(80)

	coord, err := coordinator.New(dev, coordinator.Options{LogEvents: cfg.LogEvents})
	if err != nil {
		log.Printf("Coordinator setup failed: %v", err)
		dev.Close()
		return
	}
	if err := registerPads(coord, cfg); err != nil {
		log.Printf("Pad setup failed: %v", err)
		dev.Close()
		return
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	log.Printf("Ready! %d pad(s) on the strip", len(cfg.Pads))

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Device disconnected: %v", err)
		}
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	runCancel()
	stopCoordinator(coord)

	// Let pending USB I/O callbacks complete before closing.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// device.Close() may block indefinitely on shutdown
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
}
