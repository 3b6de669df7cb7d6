package memory

import (
	"time"

	"portfolio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps UI session snapshots so a reconnecting client can
// resume its dialog.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, ttl),
	}
}

func (r *SessionRepository) Save(snapshot *entity.SessionSnapshot) {
	cp := *snapshot
	r.cache.Set(snapshot.Id.String(), &cp, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(id uuid.UUID) (*entity.SessionSnapshot, bool) {
	if x, found := r.cache.Get(id.String()); found {
		cp := *x.(*entity.SessionSnapshot)
		return &cp, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}
