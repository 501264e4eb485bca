package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	directoryCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamameet_directory_cache_hits_total",
		Help: "Member directory cache hits.",
	})
	directoryCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamameet_directory_cache_misses_total",
		Help: "Member directory cache misses.",
	})
)

// DirectoryService is the read side of the member directory. Session joins
// and minutes generation resolve attendee names through it, so lookups sit
// behind an LRU with a short TTL; presence writes invalidate the entry.
type DirectoryService struct {
	memberRepo repository.MemberRepository
	cache      *expirable.LRU[uuid.UUID, *domain.Member]
}

func NewDirectoryService(memberRepo repository.MemberRepository, cacheSize int, ttl time.Duration) *DirectoryService {
	return &DirectoryService{
		memberRepo: memberRepo,
		cache:      expirable.NewLRU[uuid.UUID, *domain.Member](cacheSize, nil, ttl),
	}
}

// GetMember returns a member by id, (nil, nil) if unknown.
func (s *DirectoryService) GetMember(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	if m, ok := s.cache.Get(id); ok {
		directoryCacheHitsTotal.Inc()
		return m, nil
	}
	directoryCacheMissesTotal.Inc()

	m, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		s.cache.Add(id, m)
	}
	return m, nil
}

func (s *DirectoryService) List(ctx context.Context) ([]domain.Member, error) {
	return s.memberRepo.List(ctx)
}

// SetPresence records the last observed presence and drops the cached
// entry so the next read sees it.
func (s *DirectoryService) SetPresence(ctx context.Context, id uuid.UUID, presence domain.Presence) error {
	if err := s.memberRepo.UpdatePresence(ctx, id, presence); err != nil {
		return err
	}
	s.cache.Remove(id)
	return nil
}
