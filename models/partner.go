package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PartnerPending  = "pending"
	PartnerApproved = "approved"
	PartnerRejected = "rejected"
)

// PartnerApplication is a salon asking to be listed as a partner. Remote
// submissions live in the partner_applications table; fallback copies are
// kept as JSON in a local slot.
type PartnerApplication struct {
	ID         string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	SalonName  string    `json:"salonName" gorm:"not null"`
	OwnerName  string    `json:"ownerName" gorm:"not null"`
	Phone      string    `json:"phone" gorm:"not null"`
	Address    string    `json:"address" gorm:"not null"`
	BookingURL string    `json:"bookingUrl,omitempty"`
	Message    string    `json:"message,omitempty" gorm:"type:text"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BeforeCreate assigns an id to remote rows.
func (p *PartnerApplication) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
