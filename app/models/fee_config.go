package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeConfig attaches a billable subject to a payer, with the optional
// modifiers applied at generation time: a flat discount, a full
// exemption, or an overridden due day. It also drives the scheduler's
// scan of which payer/subject pairs to materialize each cycle.
type FeeConfig struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PayerID     string          `json:"payer_id" gorm:"not null;index" validate:"required"`
	SubjectID   string          `json:"subject_id" gorm:"not null;index" validate:"required"`
	SubjectType SubjectType     `json:"subject_type" gorm:"not null;type:varchar(20)" validate:"required"`
	Discount    decimal.Decimal `json:"discount" gorm:"not null;type:numeric(12,2);default:0"`
	Exempt      bool            `json:"exempt" gorm:"not null;default:false"`
	DueDay      int             `json:"due_day" gorm:"not null;default:0"` // 0 = engine default
	IsActive    bool            `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}
