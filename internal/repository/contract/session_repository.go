package contract

import (
	"portfolio-be/internal/entity"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Save(snapshot *entity.SessionSnapshot)
	Get(id uuid.UUID) (*entity.SessionSnapshot, bool)
	Delete(id uuid.UUID)
}
