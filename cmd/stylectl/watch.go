package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"imagestyle/internal/apiclient"
	"imagestyle/internal/earnings"
)

// watch follows the live feed. Every new appointment triggers a refresh of
// today's total; refreshes overtaken by a newer one are dropped.
func (a *app) watch(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("watch"), args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var (
		seq apiclient.Sequencer
		mu  sync.Mutex
		wg  sync.WaitGroup
	)
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(a.out, format, args...)
	}

	fmt.Fprintln(a.out, "watching new appointments, ctrl-c to stop")
	err := a.api.Subscribe(ctx, func(ev apiclient.Event) {
		if ev.Appointment == nil {
			return
		}
		ap := ev.Appointment
		printf("new #%d %s %s to %s (%s)\n",
			ap.ID, ap.ServiceName, ap.StartTime, ap.EndTime, ap.Price.Value().StringFixed(2))

		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, applied, err := apiclient.Fetch(&seq, func() (earnings.Summary, error) {
				return a.api.Earnings(ctx, earnings.Today(time.Now()))
			})
			if err != nil {
				if ctx.Err() == nil {
					printf("refresh failed: %v\n", err)
				}
				return
			}
			if applied {
				printf("today %s\n", summary.Total.StringFixed(2))
			}
		}()
	})
	wg.Wait()
	if err != nil {
		return a.handleAuth(err)
	}
	return nil
}
