package main

import (
	"log"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// wakeSignals reports system wakes, after which the deck must be reopened.
func wakeSignals() <-chan struct{} {
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				log.Println("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wakeCh
}
