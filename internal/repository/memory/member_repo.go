package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
)

type MemberRepo struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*domain.Member
}

func NewMemberRepo() *MemberRepo {
	return &MemberRepo{members: make(map[uuid.UUID]*domain.Member)}
}

func (r *MemberRepo) Create(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *MemberRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MemberRepo) List(_ context.Context) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *MemberRepo) UpdatePresence(_ context.Context, id uuid.UUID, presence domain.Presence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		m.Presence = presence
		m.UpdatedAt = time.Now()
	}
	return nil
}
