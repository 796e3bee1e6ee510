// Command remind-once runs a single reminder pass and exits. Meant for cron
// or manual runs where the long-lived scheduler loop is not wanted.
//
// Exit codes: 0 = pass completed, 1 = error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/avasilev/taskpulse/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	if err := a.Reminders.Tick(ctx); err != nil {
		log.Fatalf("tick: %v", err)
	}
}
