package ledger

// DefaultDueDay is the day of the period a bill falls due when the
// payer's fee configuration does not override it.
const DefaultDueDay = 10

// Engine is the fee & salary ledger reconciliation engine. It owns all
// mutation of ledger entries and credit balances; nothing else writes
// paid, credit or status fields.
type Engine struct {
	store  Store
	locks  *payerLocks
	dueDay int
}

// New builds an engine over a store with the default due day.
func New(store Store) *Engine {
	return &Engine{store: store, locks: newPayerLocks(), dueDay: DefaultDueDay}
}

// NewWithDueDay builds an engine with a school-specific default due day.
func NewWithDueDay(store Store, dueDay int) *Engine {
	if dueDay < 1 || dueDay > 31 {
		dueDay = DefaultDueDay
	}
	return &Engine{store: store, locks: newPayerLocks(), dueDay: dueDay}
}

// Store exposes the underlying store for read-only projections built
// outside the engine (dashboards, reports).
func (en *Engine) Store() Store {
	return en.store
}
