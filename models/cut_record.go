package models

import "time"

// DateLayout is the calendar-date format used for CutRecord.Date.
const DateLayout = "2006-01-02"

// CutRecord is one haircut event. Date is the logical key: a store never holds
// two records with the same Date.
type CutRecord struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Memo      *string   `json:"memo,omitempty"`
	SalonName *string   `json:"salonName,omitempty"`
	Cost      *float64  `json:"cost,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordFields carries the optional CutRecord fields for merge and update.
// A nil field was not supplied by the caller.
type RecordFields struct {
	Memo      *string  `json:"memo"`
	SalonName *string  `json:"salonName"`
	Cost      *float64 `json:"cost" binding:"omitempty,min=0"`
}

// IsBare reports whether the record carries none of the optional fields.
func (r CutRecord) IsBare() bool {
	return r.Memo == nil && r.SalonName == nil && r.Cost == nil
}

// Clone returns a deep copy so callers can't mutate store-owned pointers.
func (r CutRecord) Clone() CutRecord {
	out := r
	if r.Memo != nil {
		v := *r.Memo
		out.Memo = &v
	}
	if r.SalonName != nil {
		v := *r.SalonName
		out.SalonName = &v
	}
	if r.Cost != nil {
		v := *r.Cost
		out.Cost = &v
	}
	return out
}
