package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionSnapshot is the resumable part of a UI session.
type SessionSnapshot struct {
	Id        uuid.UUID
	Modal     string
	Title     string
	TourApp   string
	UpdatedAt time.Time
}
