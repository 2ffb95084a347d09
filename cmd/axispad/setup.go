package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/axispad/internal/axispad"
	"github.com/phinze/axispad/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write the pad config file",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Axis Pad Setup ===")
	fmt.Println()

	// Load existing config as defaults
	existing, err := config.Load()
	if err != nil {
		fmt.Printf("Ignoring existing config: %v\n\n", err)
		existing = config.Default()
	}

	cfg := &config.Config{}

	fmt.Println("-- Window --")
	cfg.Window.Title = prompt(reader, "Title", existing.Window.Title)
	cfg.Window.Width = promptInt(reader, "Width", existing.Window.Width)
	cfg.Window.Height = promptInt(reader, "Height", existing.Window.Height)
	cfg.LogEvents = promptBool(reader, "Log every value event", existing.LogEvents)
	fmt.Println()

	count := promptInt(reader, "Number of pads", len(existing.Pads))
	for i := 0; i < count; i++ {
		var prev config.PadConfig
		if i < len(existing.Pads) {
			prev = existing.Pads[i]
		} else {
			prev = config.PadConfig{ID: fmt.Sprintf("pad%d", i+1)}
		}
		defaults := prev.Pad()

		fmt.Printf("-- Pad %d --\n", i+1)
		p := prev
		p.ID = prompt(reader, "ID", prev.ID)
		p.Size = promptFloat(reader, "Size", defaults.Size)
		p.ControlSize = promptFloat(reader, "Knob size", defaults.ControlSize)
		p.StepSize = promptFloat(reader, "Step size (0 for continuous)", defaults.StepSize)

		for {
			s := prompt(reader, "Initial touch (no-snap, snap-to-value, visual-snap-to-center)", defaults.InitialTouchType.String())
			t, err := axispad.ParseInitialTouchType(s)
			if err == nil {
				p.InitialTouchType = t
				break
			}
			fmt.Printf("  %v\n", err)
		}

		reset := promptBool(reader, "Reset on release", defaults.ResetOnRelease)
		p.ResetOnRelease = &reset

		if err := p.Pad().Validate(); err != nil {
			return fmt.Errorf("pad %s: %w", p.ID, err)
		}
		cfg.Pads = append(cfg.Pads, p)
		fmt.Println()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Write config file
	if err := config.WriteConfigFile(cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", config.DefaultConfigPath())
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, defaultVal int) int {
	for {
		v, err := strconv.Atoi(prompt(reader, label, strconv.Itoa(defaultVal)))
		if err == nil {
			return v
		}
		fmt.Println("  Please enter a whole number")
	}
}

func promptFloat(reader *bufio.Reader, label string, defaultVal float64) float64 {
	for {
		v, err := strconv.ParseFloat(prompt(reader, label, strconv.FormatFloat(defaultVal, 'g', -1, 64)), 64)
		if err == nil {
			return v
		}
		fmt.Println("  Please enter a number")
	}
}

func promptBool(reader *bufio.Reader, label string, defaultVal bool) bool {
	for {
		v, err := strconv.ParseBool(prompt(reader, label, strconv.FormatBool(defaultVal)))
		if err == nil {
			return v
		}
		fmt.Println("  Please enter true or false")
	}
}
