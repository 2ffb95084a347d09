// Command axispad shows analog-stick style pads on an emulator window or a
// Stream Deck touch strip and reports their values.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/axispad/internal/config"
	"github.com/phinze/axispad/internal/coordinator"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "axispad",
	Short:        "Analog-stick style pads for touch surfaces",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(runCmd, deckCmd, replayCmd, statusCmd, setupCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Println("\nReceived shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// registerPads adds every configured pad to the coordinator.
func registerPads(coord *coordinator.Coordinator, cfg *config.Config) error {
	for _, p := range cfg.Pads {
		st, err := p.Style.Style()
		if err != nil {
			return err
		}
		if _, err := coord.RegisterPad(p.ID, p.Pad(), st); err != nil {
			return err
		}
		log.Printf("Pad %s registered (%s)", p.ID, p.InitialTouchType)
	}
	return nil
}

// stopCoordinator stops the coordinator, giving up after a timeout.
func stopCoordinator(coord *coordinator.Coordinator) {
	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}
}
