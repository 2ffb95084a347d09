package main

import (
	"fmt"
	"os"
	"time"

	"github.com/phinze/axispad/internal/config"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, pad settings, and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Axis Pad Status ===")
	fmt.Println()

	allOK := true

	// Config file
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found, using defaults")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	if cfg != nil {
		fmt.Printf("Window: %q %dx%d\n", cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		fmt.Printf("Log events: %v\n", cfg.LogEvents)
		fmt.Println()

		for _, p := range cfg.Pads {
			pc := p.Pad()
			w, h := pc.PadExtent()
			fmt.Printf("Pad %s:\n", p.ID)
			fmt.Printf("  Size: %.0f (footprint %.0fx%.0f), knob %.0f\n", pc.Size, w, h, pc.ControlSize)
			fmt.Printf("  Bound radius: %.1f\n", pc.BoundRadius())
			fmt.Printf("  Initial touch: %s, resolve: %s\n", pc.InitialTouchType, pc.GestureResolveMode)
			fmt.Printf("  Step size: %g, reset on release: %v\n", pc.StepSize, pc.ResetOnRelease)
			if err := pc.Validate(); err != nil {
				fmt.Printf("  Validation: %v\n", err)
				allOK = false
			} else {
				fmt.Println("  Validation: ok")
			}
		}
		fmt.Println()
	}

	// Device check (quick USB probe)
	fmt.Println("Stream Deck:")
	dev := tryGetDeviceWithTimeout(2 * time.Second)
	if dev != nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		if !dev.GetTouchStripSupported() {
			fmt.Println("  Touch strip: NOT SUPPORTED")
		}
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'axispad setup' to configure.")
	}

	return nil
}
