package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kamwana/chamameet/internal/domain"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	List(ctx context.Context, status *domain.MeetingStatus) ([]domain.Meeting, error)
	ListLive(ctx context.Context) ([]domain.Meeting, error)
	Update(ctx context.Context, meeting *domain.Meeting) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeetingStatus) error
	SetRecordingNotes(ctx context.Context, id uuid.UUID, notes string) error
	SetMinutesDocument(ctx context.Context, id uuid.UUID, minutes string) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	UpdatePresence(ctx context.Context, id uuid.UUID, presence domain.Presence) error
}
