package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/logger"
	"bomberquiz/internal/models"

	"go.uber.org/zap/zapcore"
)

// fakeAuditRepo is a minimal stub that satisfies the repository.AuditRepo interface.
type fakeAuditRepo struct {
	gotFrom   time.Time
	gotTo     time.Time
	gotAction string
	gotLimit  int
	appended  []models.AuditEvent

	events    []models.AuditEvent
	err       error
	appendErr error
	calls     int
}

func (f *fakeAuditRepo) List(_ context.Context, from, to time.Time, action string, limit int) ([]models.AuditEvent, error) {
	f.calls++
	f.gotLimit = limit
	f.gotFrom = from
	f.gotTo = to
	f.gotAction = action
	return f.events, f.err
}

func (f *fakeAuditRepo) Append(_ context.Context, e models.AuditEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	plus3 := time.FixedZone("UTC+3", 3*3600)
	from := time.Date(2025, 1, 1, 12, 0, 0, 0, plus3)
	to := time.Date(2025, 1, 1, 13, 0, 0, 0, plus3)

	tests := []struct {
		name       string
		in         AuditFilter
		wantFrom   time.Time
		wantTo     time.Time
		wantAction string
		wantErr    bool
	}{
		{
			name:       "converts to UTC and uppercases action",
			in:         AuditFilter{From: from, To: to, Action: "  login "},
			wantFrom:   from.UTC(),
			wantTo:     to.UTC(),
			wantAction: "LOGIN",
		},
		{
			name: "zero bounds stay zero",
			in:   AuditFilter{},
		},
		{
			name:    "from after to",
			in:      AuditFilter{From: to, To: from},
			wantErr: true,
		},
		{
			name:     "equal bounds are fine",
			in:       AuditFilter{From: from, To: from},
			wantFrom: from.UTC(),
			wantTo:   from.UTC(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotFrom, gotTo, gotAction, err := normalizeAndValidateFilter(tt.in)
			if tt.wantErr {
				if !apperrors.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !gotFrom.Equal(tt.wantFrom) || !gotTo.Equal(tt.wantTo) {
				t.Fatalf("bounds: got %v..%v, want %v..%v", gotFrom, gotTo, tt.wantFrom, tt.wantTo)
			}
			if !gotFrom.IsZero() && gotFrom.Location() != time.UTC {
				t.Fatalf("from not UTC: %v", gotFrom.Location())
			}
			if gotAction != tt.wantAction {
				t.Fatalf("action: got %q want %q", gotAction, tt.wantAction)
			}
		})
	}
}

func TestAuditLogService_List_DelegatesNormalizedParams(t *testing.T) {
	repo := &fakeAuditRepo{events: []models.AuditEvent{{ID: "e-1"}}}
	svc := NewAuditLogService(repo, nil)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.FixedZone("X", -3600))
	got, err := svc.List(context.Background(), AuditFilter{From: from, Action: "delete"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || repo.calls != 1 {
		t.Fatalf("expected one delegated call, got %d events / %d calls", len(got), repo.calls)
	}
	if !repo.gotFrom.Equal(from) || !repo.gotTo.IsZero() || repo.gotAction != "DELETE" {
		t.Fatalf("unexpected params: %v %v %q", repo.gotFrom, repo.gotTo, repo.gotAction)
	}
	if repo.gotLimit != defaultAuditLimit {
		t.Fatalf("expected default limit %d, got %d", defaultAuditLimit, repo.gotLimit)
	}
}

func TestAuditLogService_List_Limit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, defaultAuditLimit},
		{-5, defaultAuditLimit},
		{25, 25},
		{maxAuditLimit + 1, maxAuditLimit},
	}
	for _, tc := range cases {
		repo := &fakeAuditRepo{}
		svc := NewAuditLogService(repo, nil)
		if _, err := svc.List(context.Background(), AuditFilter{Limit: tc.in}); err != nil {
			t.Fatalf("List(limit=%d): %v", tc.in, err)
		}
		if repo.gotLimit != tc.want {
			t.Fatalf("limit %d: got %d want %d", tc.in, repo.gotLimit, tc.want)
		}
	}
}

func TestAuditLogService_List_ValidationErrorSkipsRepo(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditLogService(repo, nil)

	now := time.Now()
	if _, err := svc.List(context.Background(), AuditFilter{From: now, To: now.Add(-time.Second)}); err == nil {
		t.Fatalf("expected error")
	}
	if repo.calls != 0 {
		t.Fatalf("repo should not be called, got %d calls", repo.calls)
	}
}

func TestAuditLogService_List_RepoErrorPropagation(t *testing.T) {
	repo := &fakeAuditRepo{err: errors.New("db down")}
	svc := NewAuditLogService(repo, nil)

	if _, err := svc.List(context.Background(), AuditFilter{}); err == nil || err.Error() != "db down" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestAuditLogService_Record_FillsActorAndTime(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditLogService(repo, nil)
	fixed := time.Date(2025, 3, 3, 3, 3, 3, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	svc.Record(WithActor(context.Background(), "admin-7"), models.AuditEvent{Action: models.AuditCreate, Entity: models.EntityUser})
	svc.Record(WithActor(context.Background(), "admin-7"), models.AuditEvent{Action: models.AuditLogin, ActorID: "explicit"})

	if len(repo.appended) != 2 {
		t.Fatalf("expected 2 appends, got %d", len(repo.appended))
	}
	if repo.appended[0].ActorID != "admin-7" || !repo.appended[0].OccurredAt.Equal(fixed) {
		t.Fatalf("unexpected first event: %+v", repo.appended[0])
	}
	if repo.appended[1].ActorID != "explicit" {
		t.Fatalf("explicit actor overwritten: %+v", repo.appended[1])
	}
}

func TestAuditLogService_Record_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.InfoLevel, logger.FormatJSON, zapcore.AddSync(&buf))
	repo := &fakeAuditRepo{appendErr: errors.New("disk full")}

	NewAuditLogService(repo, log).Record(context.Background(), models.AuditEvent{Action: models.AuditDelete, Entity: models.EntityMilitaryRank})
	NewAuditLogService(repo, nil).Record(context.Background(), models.AuditEvent{Action: models.AuditDelete})

	out := buf.String()
	if !strings.Contains(out, "audit_append_failed") || !strings.Contains(out, "disk full") {
		t.Fatalf("expected failure to be logged, got %q", out)
	}
}

func TestActorContext(t *testing.T) {
	if got := ActorFrom(context.Background()); got != "" {
		t.Fatalf("expected empty actor, got %q", got)
	}
	if got := ActorFrom(WithActor(context.Background(), "u-1")); got != "u-1" {
		t.Fatalf("expected u-1, got %q", got)
	}
}
