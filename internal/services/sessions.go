package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/atelier-dev/atelier/internal/services/domain"
	"github.com/atelier-dev/atelier/internal/services/tracing"
)

// SessionsService tracks widget sessions against workspace resources.
type SessionsService struct {
	repo   domain.SessionRepository
	tracer trace.Tracer
}

func newSessionsService(repo domain.SessionRepository, tracer trace.Tracer) *SessionsService {
	return &SessionsService{repo: repo, tracer: tracer}
}

// Start creates a running session with a fresh GUID and persists it.
func (s *SessionsService) Start(ctx context.Context, kind domain.SessionKind, path string) (*domain.Session, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid session kind: %s", kind)
	}

	session := domain.NewSession(uuid.NewString(), kind, path)

	_, span := s.tracer.Start(ctx, tracing.SpanPrefixSessions+"start",
		trace.WithAttributes(
			attribute.String(tracing.AttrSessionGUID, session.GUID()),
			attribute.String(tracing.AttrSessionKind, string(kind)),
		))
	defer span.End()

	if err := s.repo.Save(session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

// Find retrieves a session by GUID.
// Returns domain.SessionNotFoundError when no session matches.
func (s *SessionsService) Find(ctx context.Context, guid string) (*domain.Session, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixSessions+"find",
		trace.WithAttributes(attribute.String(tracing.AttrSessionGUID, guid)))
	defer span.End()

	session, err := s.repo.FindByGUID(guid)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return session, nil
}

// Close transitions a session to the closed state and persists it.
// Closing an already-closed session is a no-op.
func (s *SessionsService) Close(ctx context.Context, guid string) error {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixSessions+"close",
		trace.WithAttributes(attribute.String(tracing.AttrSessionGUID, guid)))
	defer span.End()

	session, err := s.repo.FindByGUID(guid)
	if err != nil {
		span.RecordError(err)
		return err
	}

	session.Close()
	if err := s.repo.Save(session); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// Running retrieves all sessions in the running state, newest first.
func (s *SessionsService) Running(ctx context.Context) ([]*domain.Session, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixSessions+"running")
	defer span.End()

	sessions, err := s.repo.ListRunning()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return sessions, nil
}
