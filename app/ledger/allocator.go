package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/models"
)

// CollectFeeRequest is a clerk's fee-collection submission: an amount
// applied against explicitly selected open entries of one payer.
type CollectFeeRequest struct {
	PayerID       string
	EntryIDs      []string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Meta          models.PaymentMeta
	ReceiptNumber string
	RecordedBy    string
}

// CollectFeeResult is the created audit record plus the post-allocation
// entry snapshots handed to the receipt renderer.
type CollectFeeResult struct {
	Payment *models.PaymentRecord  `json:"payment"`
	Entries []models.EntrySnapshot `json:"entries"`
}

// CollectFee validates and applies a fee payment. The submitted amount
// is capped at the pending total of the selected entries: fee
// overpayment must be deliberate, recorded against an explicitly chosen
// period, so anything beyond the cap is rejected with the maximum
// payable amount rather than carried as credit. Validation happens
// before any mutation; a failed request leaves the ledger untouched.
func (en *Engine) CollectFee(req CollectFeeRequest, asOf time.Time) (*CollectFeeResult, error) {
	if err := validatePaymentRequest(req.PayerID, req.Amount, req.Meta); err != nil {
		return nil, err
	}
	if len(req.EntryIDs) == 0 {
		return nil, NewValidationError("entry_ids", "select at least one entry")
	}
	seen := make(map[string]bool, len(req.EntryIDs))
	for _, id := range req.EntryIDs {
		if seen[id] {
			return nil, NewValidationError("entry_ids", "contains duplicate entries")
		}
		seen[id] = true
	}

	unlock := en.locks.Lock("payer:" + req.PayerID)
	defer unlock()

	entries, err := en.loadSelectedEntries(req.PayerID, req.EntryIDs, asOf)
	if err != nil {
		return nil, err
	}

	maxPayable := decimal.Zero
	for _, e := range entries {
		maxPayable = maxPayable.Add(e.Pending())
	}
	if req.Amount.GreaterThan(maxPayable) {
		return nil, &OverAllocationError{Submitted: req.Amount, MaxPayable: maxPayable}
	}

	allocations := allocateOldestFirst(entries, req.Amount)
	allocated := decimal.Zero
	for _, a := range allocations {
		allocated = allocated.Add(a.Amount)
	}

	payment := &models.PaymentRecord{
		ID:              uuid.NewString(),
		PayerID:         req.PayerID,
		EntryIDs:        req.EntryIDs,
		AmountSubmitted: req.Amount,
		AmountAllocated: allocated,
		ExcessAmount:    decimal.Zero,
		PaymentDate:     models.DateOnly(req.PaymentDate),
		Meta:            req.Meta,
		ReceiptNumber:   req.ReceiptNumber,
		RecordedBy:      req.RecordedBy,
		CreatedAt:       time.Now(),
	}
	// Audit record first: a settled entry must never exist without its
	// payment row.
	if err := en.store.InsertPayment(payment, allocations); err != nil {
		return nil, err
	}
	if err := en.persistAllocations(entries, allocations, asOf); err != nil {
		return nil, err
	}

	return &CollectFeeResult{Payment: payment, Entries: snapshots(entries)}, nil
}

// SalaryPaymentRequest records a salary payout targeted at one period
// of a teacher's salary structure.
type SalaryPaymentRequest struct {
	TeacherID     string
	SubjectID     string
	PeriodYear    int
	PeriodMonth   int
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Meta          models.PaymentMeta
	ReceiptNumber string
	RecordedBy    string
}

// SalarySettlement reports where a salary payment went: the audit
// record, the target period snapshots, and — when the payment overshot
// the period — how much became credit and which future periods it was
// applied to.
type SalarySettlement struct {
	Payment         *models.PaymentRecord      `json:"payment"`
	Entries         []models.EntrySnapshot     `json:"entries"`
	ExcessAmount    decimal.Decimal            `json:"excess_amount"`
	CreditApplied   []models.CreditApplication `json:"credit_applied"`
	RemainingCredit decimal.Decimal            `json:"remaining_credit"`
}

// PaySalary applies a salary payment against the targeted period's
// entries. The target period must have started; only the cap is relaxed
// relative to fee collection. A salary overpayment commonly represents
// an advance, so the portion beyond the period's pending amount is
// posted to the credit ledger and immediately rolled forward onto the
// teacher's oldest unpaid periods.
func (en *Engine) PaySalary(req SalaryPaymentRequest, asOf time.Time) (*SalarySettlement, error) {
	if err := validatePaymentRequest(req.TeacherID, req.Amount, req.Meta); err != nil {
		return nil, err
	}
	if req.PeriodYear == 0 {
		return nil, NewValidationError("period_year", "is required")
	}

	unlock := en.locks.Lock("payer:" + req.TeacherID)
	defer unlock()

	all, err := en.store.EntriesForPayer(req.TeacherID)
	if err != nil {
		return nil, err
	}
	var targets []*models.LedgerEntry
	for _, e := range all {
		if e.SubjectType != models.SubjectSalary {
			continue
		}
		if req.SubjectID != "" && e.SubjectID != req.SubjectID {
			continue
		}
		if e.PeriodYear == req.PeriodYear && e.PeriodMonth == req.PeriodMonth {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return nil, ErrEntryNotFound
	}
	// Advances on periods that have not started flow through the credit
	// ledger, never through direct payment.
	for _, e := range targets {
		if Classify(e, asOf) == models.StatusFuture {
			return nil, ErrFuturePeriodNotPayable
		}
	}

	pending := decimal.Zero
	for _, e := range targets {
		pending = pending.Add(e.Pending())
	}

	allocatable := decimal.Min(req.Amount, pending)
	excess := req.Amount.Sub(allocatable)

	allocations := allocateOldestFirst(targets, allocatable)

	entryIDs := make([]string, 0, len(targets))
	for _, e := range targets {
		entryIDs = append(entryIDs, e.ID)
	}
	payment := &models.PaymentRecord{
		ID:              uuid.NewString(),
		PayerID:         req.TeacherID,
		EntryIDs:        entryIDs,
		AmountSubmitted: req.Amount,
		AmountAllocated: allocatable,
		ExcessAmount:    excess,
		PaymentDate:     models.DateOnly(req.PaymentDate),
		Meta:            req.Meta,
		ReceiptNumber:   req.ReceiptNumber,
		RecordedBy:      req.RecordedBy,
		CreatedAt:       time.Now(),
	}
	if err := en.store.InsertPayment(payment, allocations); err != nil {
		return nil, err
	}
	if err := en.persistAllocations(targets, allocations, asOf); err != nil {
		return nil, err
	}

	settlement := &SalarySettlement{
		Payment:      payment,
		Entries:      snapshots(targets),
		ExcessAmount: excess,
	}

	if excess.IsPositive() {
		if _, err := en.postCreditLocked(req.TeacherID, excess, payment.ID); err != nil {
			return nil, err
		}
		applied, err := en.applyCreditLocked(req.TeacherID, asOf)
		if err != nil {
			return nil, err
		}
		settlement.CreditApplied = applied
	}
	remaining, err := en.remainingCredit(req.TeacherID)
	if err != nil {
		return nil, err
	}
	settlement.RemainingCredit = remaining
	return settlement, nil
}

// validatePaymentRequest covers the checks shared by both flows.
func validatePaymentRequest(payerID string, amount decimal.Decimal, meta models.PaymentMeta) error {
	if payerID == "" {
		return NewValidationError("payer_id", "is required")
	}
	if !amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	if err := meta.Validate(); err != nil {
		return NewValidationError("meta", err.Error())
	}
	return nil
}

// loadSelectedEntries fetches and checks the clerk-selected entries:
// each must exist, belong to the payer, and not sit in a future period.
func (en *Engine) loadSelectedEntries(payerID string, ids []string, asOf time.Time) ([]*models.LedgerEntry, error) {
	entries, err := en.store.EntriesByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.LedgerEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	var out []*models.LedgerEntry
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, ErrEntryNotFound
		}
		if e.PayerID != payerID {
			return nil, ErrPayerMismatch
		}
		if Classify(e, asOf) == models.StatusFuture {
			return nil, ErrFuturePeriodNotPayable
		}
		out = append(out, e)
	}
	return out, nil
}

// allocateOldestFirst spreads an amount across entries in due-date
// order, each entry receiving at most its pending amount.
func allocateOldestFirst(entries []*models.LedgerEntry, amount decimal.Decimal) []models.PaymentAllocation {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.Before(entries[j].DueDate)
	})

	var allocations []models.PaymentAllocation
	remaining := amount
	for _, e := range entries {
		if !remaining.IsPositive() {
			break
		}
		share := decimal.Min(remaining, e.Pending())
		if !share.IsPositive() {
			continue
		}
		e.Paid = e.Paid.Add(share)
		remaining = remaining.Sub(share)
		allocations = append(allocations, models.PaymentAllocation{EntryID: e.ID, Amount: share})
	}
	return allocations
}

// persistAllocations writes back every entry touched by an allocation,
// reclassifying each against asOf.
func (en *Engine) persistAllocations(entries []*models.LedgerEntry, allocations []models.PaymentAllocation, asOf time.Time) error {
	touched := make(map[string]bool, len(allocations))
	for _, a := range allocations {
		touched[a.EntryID] = true
	}
	for _, e := range entries {
		if !touched[e.ID] {
			continue
		}
		reclassify(e, asOf)
		e.UpdatedAt = time.Now()
		if err := en.store.UpdateEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func snapshots(entries []*models.LedgerEntry) []models.EntrySnapshot {
	out := make([]models.EntrySnapshot, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Snapshot())
	}
	return out
}
