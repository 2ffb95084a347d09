package main

import (
	"fmt"
	"os"

	"github.com/phinze/axispad/internal/device"
	"github.com/phinze/axispad/internal/gesture"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var replayYAML bool

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Replay a gesture script against its pad and print the value events",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayYAML, "yaml", false, "print events as YAML")
}

// replayEvent is one printed value event.
type replayEvent struct {
	Step  int     `yaml:"step"`
	Phase string  `yaml:"phase"`
	Type  string  `yaml:"type"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	script, err := gesture.LoadScript(args[0])
	if err != nil {
		return err
	}
	results, err := gesture.Replay(script)
	if err != nil {
		return fmt.Errorf("replaying %s: %w", args[0], err)
	}

	var events []replayEvent
	for i, r := range results {
		if r.Step.Phase == device.PhaseDown && !r.Accepted {
			if !replayYAML {
				fmt.Printf("%3d %-6s (%.1f, %.1f) touch %d rejected\n", i+1, r.Step.Phase, r.Step.X, r.Step.Y, r.Step.Touch)
			}
			continue
		}
		for _, e := range r.Events {
			events = append(events, replayEvent{
				Step:  i + 1,
				Phase: r.Step.Phase.String(),
				Type:  e.Type.String(),
				X:     e.Ratio.X,
				Y:     e.Ratio.Y,
			})
			if !replayYAML {
				fmt.Printf("%3d %-6s (%.1f, %.1f) touch %d: %s x=%.2f y=%.2f\n",
					i+1, r.Step.Phase, r.Step.X, r.Step.Y, r.Step.Touch, e.Type, e.Ratio.X, e.Ratio.Y)
			}
		}
	}

	if replayYAML {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(events)
	}
	return nil
}
