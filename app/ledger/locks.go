package ledger

import "sync"

// payerLocks serializes mutating operations per payer. Two concurrent
// allocations against the same payer must not both read stale pending
// amounts; operations on different payers proceed independently.
type payerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPayerLocks() *payerLocks {
	return &payerLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock func. Mutexes
// live for the life of the process; the map is bounded by the payer and
// subject population.
func (p *payerLocks) Lock(key string) func() {
	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
