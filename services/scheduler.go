package services

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// IntervalJob runs fn on a fixed cadence. Runs are single-flight: a tick
// arriving while the previous run is still going is skipped, not queued.
type IntervalJob struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error

	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// Start launches the ticker loop. Call Stop to end it.
func (j *IntervalJob) Start(ctx context.Context) {
	j.stop = make(chan struct{})
	j.done = make(chan struct{})

	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Tick(ctx)
			case <-j.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	log.Printf("Started %s every %s", j.Name, j.Interval)
}

// Tick executes one run unless a run is already in flight. Returns whether
// the run happened. Exposed so tests can drive the job manually.
func (j *IntervalJob) Tick(ctx context.Context) bool {
	if !j.running.CompareAndSwap(false, true) {
		log.Printf("Skipping %s tick: previous run still in progress", j.Name)
		return false
	}
	defer j.running.Store(false)

	if err := j.Run(ctx); err != nil {
		log.Printf("%s run failed: %v", j.Name, err)
	}
	return true
}

// Stop ends the loop and waits for it to exit.
func (j *IntervalJob) Stop() {
	if j.stop == nil {
		return
	}
	close(j.stop)
	<-j.done
}

// DailyJob runs fn once a day at Hour:Minute local time, rescheduling itself
// after every run. A failed run is logged and retried at the next occurrence.
type DailyJob struct {
	Name   string
	Hour   int
	Minute int
	Run    func(ctx context.Context) error

	stop chan struct{}
	done chan struct{}
}

// NextRun returns the first Hour:Minute occurrence strictly after now.
func (j *DailyJob) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), j.Hour, j.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start launches the schedule loop. Call Stop to end it.
func (j *DailyJob) Start(ctx context.Context) {
	j.stop = make(chan struct{})
	j.done = make(chan struct{})

	go func() {
		defer close(j.done)
		for {
			next := j.NextRun(time.Now())
			timer := time.NewTimer(time.Until(next))
			select {
			case <-timer.C:
				if err := j.Run(ctx); err != nil {
					log.Printf("%s run failed: %v", j.Name, err)
				}
			case <-j.stop:
				timer.Stop()
				return
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
	}()
	log.Printf("Scheduled %s daily at %02d:%02d", j.Name, j.Hour, j.Minute)
}

// Stop ends the loop and waits for it to exit.
func (j *DailyJob) Stop() {
	if j.stop == nil {
		return
	}
	close(j.stop)
	<-j.done
}
