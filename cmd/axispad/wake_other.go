//go:build !darwin

package main

// wakeSignals never fires off macOS.
func wakeSignals() <-chan struct{} {
	return nil
}
