package model

import "time"

// Batch is the most recently ingested set of valid assignments.
type Batch struct {
	ID          string       `json:"id"`
	StoredAt    time.Time    `json:"storedAt"`
	Assignments []Assignment `json:"assignments"`
}

func (b *Batch) Empty() bool {
	return b == nil || len(b.Assignments) == 0
}
