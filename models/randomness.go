package models

import "time"

// RandomnessRequest tracks one outbound oracle request. Outstanding flips to
// false exactly once, when the callback for RequestID is consumed.
type RandomnessRequest struct {
	RequestID   uint64    `gorm:"primaryKey" json:"requestId"`
	RoundID     uint64    `gorm:"index" json:"roundId"`
	NumValues   int       `json:"numValues"`
	Outstanding bool      `json:"outstanding"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
