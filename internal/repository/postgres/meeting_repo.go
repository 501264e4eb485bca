package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kamwana/chamameet/internal/domain"
)

type MeetingRepo struct {
	pool *pgxpool.Pool
}

func NewMeetingRepo(pool *pgxpool.Pool) *MeetingRepo {
	return &MeetingRepo{pool: pool}
}

const meetingColumns = `id, title, type, status, meeting_date, meeting_time, duration_minutes,
	location, meeting_link, organizer_id, agenda, attendee_ids,
	recording_enabled, ai_minutes_enabled, recording_notes, minutes_document,
	created_at, updated_at`

func (r *MeetingRepo) Create(ctx context.Context, m *domain.Meeting) error {
	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Title, m.Type, m.Status, m.Date, m.Time, m.DurationMinutes,
		m.Location, m.MeetingLink, m.OrganizerID, m.Agenda, attendeeStrings(m.AttendeeIDs),
		m.RecordingEnabled, m.AIMinutesEnabled, m.RecordingNotes, m.MinutesDocument,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *MeetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	m, err := scanMeeting(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *MeetingRepo) List(ctx context.Context, status *domain.MeetingStatus) ([]domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY meeting_date, meeting_time, created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMeetings(rows)
}

func (r *MeetingRepo) ListLive(ctx context.Context) ([]domain.Meeting, error) {
	live := domain.StatusLive
	return r.List(ctx, &live)
}

func (r *MeetingRepo) Update(ctx context.Context, m *domain.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $2, type = $3, meeting_date = $4, meeting_time = $5,
		    duration_minutes = $6, location = $7, agenda = $8, attendee_ids = $9,
		    updated_at = $10
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Title, m.Type, m.Date, m.Time,
		m.DurationMinutes, m.Location, m.Agenda, attendeeStrings(m.AttendeeIDs),
		time.Now(),
	)
	return err
}

func (r *MeetingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeetingStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	return err
}

func (r *MeetingRepo) SetRecordingNotes(ctx context.Context, id uuid.UUID, notes string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET recording_notes = $2, updated_at = $3 WHERE id = $1`,
		id, notes, time.Now(),
	)
	return err
}

func (r *MeetingRepo) SetMinutesDocument(ctx context.Context, id uuid.UUID, minutes string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET minutes_document = $2, updated_at = $3 WHERE id = $1`,
		id, minutes, time.Now(),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	var m domain.Meeting
	var attendees []string
	err := row.Scan(
		&m.ID, &m.Title, &m.Type, &m.Status, &m.Date, &m.Time, &m.DurationMinutes,
		&m.Location, &m.MeetingLink, &m.OrganizerID, &m.Agenda, &attendees,
		&m.RecordingEnabled, &m.AIMinutesEnabled, &m.RecordingNotes, &m.MinutesDocument,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.AttendeeIDs = make([]uuid.UUID, 0, len(attendees))
	for _, s := range attendees {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		m.AttendeeIDs = append(m.AttendeeIDs, id)
	}
	return &m, nil
}

func collectMeetings(rows pgx.Rows) ([]domain.Meeting, error) {
	var meetings []domain.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

// attendee_ids is stored as text[]; uuid.UUID values round-trip as strings.
func attendeeStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
