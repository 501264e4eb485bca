package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
	"github.com/kamwana/chamameet/internal/repository/memory"
)

func TestDirectoryUnknownMember(t *testing.T) {
	dir := NewDirectoryService(memory.NewMemberRepo(), 16, time.Minute)

	m, err := dir.GetMember(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m != nil {
		t.Errorf("unknown member = %+v, want nil", m)
	}
}

func TestDirectoryCachesReads(t *testing.T) {
	repo := memory.NewMemberRepo()
	dir := NewDirectoryService(repo, 16, time.Minute)
	ctx := context.Background()

	member := seedMember(t, repo, "Grace Wanjiru", domain.PresenceOnline)

	first, err := dir.GetMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// A repo-level write without invalidation is not visible: the cached
	// snapshot answers until the entry is dropped.
	if err := repo.UpdatePresence(ctx, member.ID, domain.PresenceAway); err != nil {
		t.Fatalf("update presence: %v", err)
	}
	cached, err := dir.GetMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cached.Presence != first.Presence {
		t.Errorf("presence = %q, want cached %q", cached.Presence, first.Presence)
	}

	// SetPresence invalidates, so the next read is fresh.
	if err := dir.SetPresence(ctx, member.ID, domain.PresenceOffline); err != nil {
		t.Fatalf("set presence: %v", err)
	}
	fresh, err := dir.GetMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Presence != domain.PresenceOffline {
		t.Errorf("presence after invalidation = %q, want offline", fresh.Presence)
	}
}
