package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/database/audit"
	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
)

type AuditController struct {
	events AuditReader
	logger *zap.Logger
}

func NewAuditController(events AuditReader, logger *zap.Logger) *AuditController {
	return &AuditController{
		events: events,
		logger: logging.OrNop(logger).Named("api"),
	}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// Filters: actor, type, entity_type, entity_id. Only requests that may
// edit the directory can read its history.
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	if !auth.CanEdit(c) {
		respondError(c, http.StatusForbidden, "editor login required")
		return
	}

	entityID, ok := parseOptionalQueryID(c, "entity_id")
	if !ok {
		return
	}
	limit, offset, page := parsePagination(c, 25, 100)

	filter := audit.Filter{
		Actor:      c.Query("actor"),
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity_type"),
		EntityID:   entityID,
	}

	events, total, err := ac.events.GetEvents(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondInternalError(c, ac.logger, err, "get audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    page < totalPages,
		TotalPages: totalPages,
	})
}
