package services

import (
	"log"
	"sync"
)

// Background runs fire-and-forget side effects (check-in SMS, feedback
// email). Failures are logged and never reach the request that spawned them.
type Background struct {
	wg sync.WaitGroup
}

// Go runs fn on its own goroutine. Errors and panics are logged under name.
func (b *Background) Go(name string, fn func() error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ Background task %s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			log.Printf("Background task %s failed: %v", name, err)
		}
	}()
}

// Wait blocks until all submitted tasks finish. Used on shutdown and in tests.
func (b *Background) Wait() {
	b.wg.Wait()
}
