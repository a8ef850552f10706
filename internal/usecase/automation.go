package usecase

import (
	"context"
	"log"
	"sync"
	"time"
)

// AutomationService runs one cancellable periodic task per owner. Each tick
// refreshes the owner's opportunities and evaluates every enabled rule.
// Starting while already running replaces the previous timer; different
// owners' loops are independent.
type AutomationService struct {
	scanner *OpportunityScanner
	rules   *RuleService

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

func NewAutomationService(scanner *OpportunityScanner, rules *RuleService) *AutomationService {
	return &AutomationService{
		scanner: scanner,
		rules:   rules,
		running: make(map[string]context.CancelFunc),
	}
}

// Start launches (or replaces) the owner's automation loop.
func (s *AutomationService) Start(owner string, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	s.mu.Lock()
	if cancel, ok := s.running[owner]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running[owner] = cancel
	s.mu.Unlock()

	log.Printf("automation started for %s (interval %v)", owner, interval)
	go s.loop(ctx, owner, interval)
}

// Stop cancels the owner's loop. Stopping an owner that is not running is a
// no-op.
func (s *AutomationService) Stop(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.running[owner]; ok {
		cancel()
		delete(s.running, owner)
		log.Printf("automation stopped for %s", owner)
	}
}

// StopAll cancels every owner's loop (shutdown path).
func (s *AutomationService) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, cancel := range s.running {
		cancel()
		delete(s.running, owner)
	}
}

// IsRunning reports whether the owner has a live loop.
func (s *AutomationService) IsRunning(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[owner]
	return ok
}

func (s *AutomationService) loop(ctx context.Context, owner string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Immediate first tick, then on the interval.
	s.tick(ctx, owner)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, owner)
		}
	}
}

func (s *AutomationService) tick(ctx context.Context, owner string) {
	start := time.Now()

	if _, err := s.scanner.Scan(ctx, owner); err != nil {
		log.Printf("automation: scan failed for %s: %v", owner, err)
	}

	trades := s.rules.EvaluateOwnerRules(ctx, owner)

	log.Printf("automation tick for %s completed in %v (%d trades)", owner, time.Since(start), len(trades))
}
