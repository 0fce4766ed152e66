package models

// BillingCycle defines how often a billable subject recurs.
type BillingCycle string

const (
	CycleOneTime   BillingCycle = "one_time"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
	CyclePerTrip   BillingCycle = "per_trip"
	CycleWeekly    BillingCycle = "weekly"
	CycleBiweekly  BillingCycle = "biweekly"
)

// Valid reports whether the cycle is one of the supported values.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleOneTime, CycleMonthly, CycleQuarterly, CycleYearly, CyclePerTrip, CycleWeekly, CycleBiweekly:
		return true
	}
	return false
}

// SubjectType identifies what kind of billable item a subject is.
type SubjectType string

const (
	SubjectClassFee     SubjectType = "class_fee"
	SubjectTransportFee SubjectType = "transport_fee"
	SubjectCustomFee    SubjectType = "custom_fee"
	SubjectSalary       SubjectType = "salary"
)

// Valid reports whether the subject type is one of the supported values.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectClassFee, SubjectTransportFee, SubjectCustomFee, SubjectSalary:
		return true
	}
	return false
}

// EntryStatus defines the lifecycle status of a ledger entry.
type EntryStatus string

const (
	StatusPaid          EntryStatus = "paid"
	StatusPartiallyPaid EntryStatus = "partially_paid"
	StatusPending       EntryStatus = "pending"
	StatusOverdue       EntryStatus = "overdue"
	StatusFuture        EntryStatus = "future"
	StatusExempt        EntryStatus = "exempt"
)

// PaymentMode defines how a payment was made.
type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeCheque       PaymentMode = "cheque"
	ModeBankTransfer PaymentMode = "bank_transfer"
	ModeMobileMoney  PaymentMode = "mobile_money"
)

// Valid reports whether the payment mode is one of the supported values.
func (m PaymentMode) Valid() bool {
	switch m {
	case ModeCash, ModeCheque, ModeBankTransfer, ModeMobileMoney:
		return true
	}
	return false
}
