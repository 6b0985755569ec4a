package crawler

import "sync"

// domainBreaker trips a domain after it accumulates too many rejections
// in a single run. A tripped domain is reported exactly once so the caller
// can persist it to the blacklist.
type domainBreaker struct {
	mu        sync.Mutex
	threshold int
	counts    map[string]int
	tripped   map[string]struct{}
}

func newDomainBreaker(threshold int) *domainBreaker {
	return &domainBreaker{
		threshold: threshold,
		counts:    make(map[string]int),
		tripped:   make(map[string]struct{}),
	}
}

// recordRejection bumps the domain's rejection count and reports whether
// this call tripped the breaker.
func (b *domainBreaker) recordRejection(domain string) bool {
	if b.threshold <= 0 || domain == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, done := b.tripped[domain]; done {
		return false
	}
	b.counts[domain]++
	if b.counts[domain] >= b.threshold {
		b.tripped[domain] = struct{}{}
		return true
	}
	return false
}

func (b *domainBreaker) isTripped(domain string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tripped[domain]
	return ok
}

// globalBreaker halts the whole run after too many consecutive rejections
// across all domains. Any acceptance resets the streak.
type globalBreaker struct {
	mu          sync.Mutex
	threshold   int
	consecutive int
	stopped     bool
}

func newGlobalBreaker(threshold int) *globalBreaker {
	return &globalBreaker{threshold: threshold}
}

func (b *globalBreaker) recordRejection() bool {
	if b.threshold <= 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutive++
	if b.consecutive >= b.threshold {
		b.stopped = true
	}
	return b.stopped
}

func (b *globalBreaker) recordAcceptance() {
	b.mu.Lock()
	b.consecutive = 0
	b.mu.Unlock()
}

func (b *globalBreaker) stopRequested() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopped
}
