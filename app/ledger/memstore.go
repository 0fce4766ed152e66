package ledger

import (
	"sort"
	"sync"
	"time"

	"alnoor-schools/app/models"
)

// MemStore is an in-memory Store used by the engine tests and by local
// development without a database. It mirrors the Postgres store's
// semantics, including the optimistic version check on entry updates.
type MemStore struct {
	mu       sync.RWMutex
	rates    map[string][]*models.RateVersion // subjectID → versions, oldest first
	entries  map[string]*models.LedgerEntry   // entryID → entry
	payments []*models.PaymentRecord
	credits  []*models.CreditBalance
	configs  map[string]*models.FeeConfig // payerID+"/"+subjectID → config
}

// NewMemStore builds an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		rates:   make(map[string][]*models.RateVersion),
		entries: make(map[string]*models.LedgerEntry),
		configs: make(map[string]*models.FeeConfig),
	}
}

func (s *MemStore) InsertRateVersion(v *models.RateVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.rates[v.SubjectID] = append(s.rates[v.SubjectID], &cp)
	return nil
}

func (s *MemStore) CloseRateVersion(id string, effectiveTo time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, versions := range s.rates {
		for _, v := range versions {
			if v.ID == id {
				to := models.DateOnly(effectiveTo)
				v.EffectiveTo = &to
				return nil
			}
		}
	}
	return ErrEntryNotFound
}

func (s *MemStore) CurrentRateVersion(subjectID string) (*models.RateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.rates[subjectID] {
		if v.Open() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemStore) RateVersionOn(subjectID string, on time.Time) (*models.RateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.rates[subjectID] {
		if v.CoversDate(on) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemStore) RateHistory(subjectID string) ([]*models.RateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.rates[subjectID]
	out := make([]*models.RateVersion, 0, len(versions))
	for _, v := range versions {
		cp := *v
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveFrom.Before(out[j].EffectiveFrom)
	})
	return out, nil
}

func (s *MemStore) InsertEntry(e *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.entries[e.ID] = &cp
	return nil
}

func (s *MemStore) UpdateEntry(e *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.entries[e.ID]
	if !ok {
		return ErrEntryNotFound
	}
	if stored.Version != e.Version {
		return ErrConcurrentModification
	}
	e.Version++
	cp := *e
	s.entries[e.ID] = &cp
	return nil
}

func (s *MemStore) EntryByID(id string) (*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemStore) EntriesByIDs(ids []string) ([]*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.LedgerEntry
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) EntriesForPayer(payerID string) ([]*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.LedgerEntry
	for _, e := range s.entries {
		if e.PayerID == payerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (s *MemStore) EntriesForSubject(payerID, subjectID string) ([]*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.LedgerEntry
	for _, e := range s.entries {
		if e.PayerID == payerID && e.SubjectID == subjectID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (s *MemStore) OpenEntries(payerID string) ([]*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.LedgerEntry
	for _, e := range s.entries {
		if e.PayerID == payerID && e.Pending().IsPositive() {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (s *MemStore) InsertPayment(p *models.PaymentRecord, _ []models.PaymentAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.payments = append(s.payments, &cp)
	return nil
}

func (s *MemStore) PaymentsForPayer(payerID string) ([]*models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.PaymentRecord
	for _, p := range s.payments {
		if p.PayerID == payerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) InsertCredit(c *models.CreditBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.credits = append(s.credits, &cp)
	return nil
}

func (s *MemStore) UpdateCredit(c *models.CreditBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, stored := range s.credits {
		if stored.ID == c.ID {
			cp := *c
			s.credits[i] = &cp
			return nil
		}
	}
	return ErrEntryNotFound
}

func (s *MemStore) OpenCredits(payerID string) ([]*models.CreditBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CreditBalance
	for _, c := range s.credits {
		if c.PayerID == payerID && !c.Exhausted() {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) CreditsForPayer(payerID string) ([]*models.CreditBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CreditBalance
	for _, c := range s.credits {
		if c.PayerID == payerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) UpsertFeeConfig(c *models.FeeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.configs[c.PayerID+"/"+c.SubjectID] = &cp
	return nil
}

func (s *MemStore) FeeConfig(payerID, subjectID string) (*models.FeeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.configs[payerID+"/"+subjectID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *MemStore) ActiveFeeConfigs() ([]*models.FeeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.FeeConfig
	for _, c := range s.configs {
		if c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func sortByDueDate(entries []*models.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DueDate.Equal(entries[j].DueDate) {
			return entries[i].PeriodStart.Before(entries[j].PeriodStart)
		}
		return entries[i].DueDate.Before(entries[j].DueDate)
	})
}
