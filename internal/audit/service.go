package audit

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/database/audit"
	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
)

const (
	ActorEditor    = "editor"
	ActorAnonymous = "anonymous"
	ActorCLI       = "cli"
	ActorSystem    = "system"

	entityAuthor = "author"
	entityGenre  = "genre"
)

// RequestInfo identifies who triggered an audited action.
type RequestInfo struct {
	Actor     string
	IPAddress string
	UserAgent string
}

type requestInfoKey struct{}

// WithRequestInfo attaches request details to ctx for later audit records.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFromContext returns the request details stored in ctx.
// Without any, the actor is anonymous.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if info, ok := ctx.Value(requestInfoKey{}).(RequestInfo); ok {
		if info.Actor == "" {
			info.Actor = ActorAnonymous
		}
		return info
	}
	return RequestInfo{Actor: ActorAnonymous}
}

// Service provides high-level audit logging functionality.
// Records are written synchronously; a failed write is logged and never
// surfaces to the caller.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logging.OrNop(logger).Named("audit")}
}

func (s *Service) record(ctx context.Context, event *entities.AuditEvent, err error) {
	info := RequestInfoFromContext(ctx)
	event.Actor = info.Actor
	event.IPAddress = info.IPAddress
	event.UserAgent = truncate(info.UserAgent, 500)
	event.Status = entities.AuditStatusSuccess
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	if logErr := s.repo.LogEvent(ctx, event); logErr != nil {
		s.logger.Warn("failed to record audit event",
			zap.String("action", event.Action),
			zap.Error(logErr))
	}
}

func (s *Service) logAuthor(ctx context.Context, eventType entities.AuditEventType, verb string, author entities.Author, err error) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityAuthor + "_" + string(eventType),
		Description: truncate(fmt.Sprintf("%s author: %s", verb, author.Name), 500),
		EntityType:  entityAuthor,
	}
	if author.ID != 0 {
		id := author.ID
		event.EntityID = &id
	}
	s.record(ctx, event, err)
}

// LogAuthorCreate records an author insert.
func (s *Service) LogAuthorCreate(ctx context.Context, author entities.Author, err error) {
	s.logAuthor(ctx, entities.AuditEventCreate, "Created", author, err)
}

// LogAuthorUpdate records an author update.
func (s *Service) LogAuthorUpdate(ctx context.Context, author entities.Author, err error) {
	s.logAuthor(ctx, entities.AuditEventUpdate, "Updated", author, err)
}

// LogAuthorDelete records an author deletion.
func (s *Service) LogAuthorDelete(ctx context.Context, author entities.Author, err error) {
	s.logAuthor(ctx, entities.AuditEventDelete, "Deleted", author, err)
}

// LogGenreSeed records a genre seeding run.
func (s *Service) LogGenreSeed(ctx context.Context, created int, err error) {
	s.record(ctx, &entities.AuditEvent{
		EventType:   entities.AuditEventSeed,
		Action:      "genre_seed",
		Description: fmt.Sprintf("Seeded %d genres", created),
		EntityType:  entityGenre,
	}, err)
}

// LogAuth records an editor login or logout attempt.
func (s *Service) LogAuth(ctx context.Context, action string, success bool) {
	var err error
	if !success {
		err = fmt.Errorf("%s rejected", action)
	}
	s.record(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    action,
	}, err)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, f audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, f, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens s to at most maxLen characters, cutting on a rune
// boundary.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
