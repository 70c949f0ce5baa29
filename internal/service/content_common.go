package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/internal/repository"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

const (
	entityNews    = "news"
	entityFaculty = "faculty"
	entityTeacher = "teacher"

	operationCreate = "create"
	operationUpdate = "update"
	operationDelete = "delete"
)

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type pageInvalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

type requestMetaKey struct{}

// RequestMeta identifies the client behind a write for the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// WithRequestMeta attaches client details to ctx.
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, RequestMeta{IP: ip, UserAgent: userAgent})
}

// RequestMetaFrom returns the client details attached by WithRequestMeta.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

func requireActor(actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return nil
}

func persistenceError(err error, message string) *appErrors.Error {
	return appErrors.Persistence(err, false, message)
}

// writeError classifies a failed insert or update.
func writeError(err error, entity, slug string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	if repository.IsUniqueViolation(err) {
		constraint := repository.ConstraintName(err)
		if slug != "" && (constraint == "" || strings.Contains(constraint, "slug")) {
			return appErrors.Persistence(err, true, fmt.Sprintf("%s slug %q is already taken, please resubmit", entity, slug))
		}
		msg := fmt.Sprintf("%s conflicts with an existing record", entity)
		if constraint != "" {
			msg = fmt.Sprintf("%s conflicts with an existing record (%s)", entity, constraint)
		}
		return appErrors.Persistence(err, true, msg)
	}
	return persistenceError(err, "failed to save "+entity)
}

func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return persistenceError(err, "failed to load "+entity)
}

func deleteError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return persistenceError(err, "failed to delete "+entity)
}

func listPagination(filter models.ListFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

// contentWriter bundles the side effects every successful write shares.
type contentWriter struct {
	audit       auditLogger
	invalidator pageInvalidator
	metrics     *MetricsService
	logger      *zap.Logger
}

func (w contentWriter) done(ctx context.Context, actor *models.JWTClaims, entity, operation, id string, values interface{}, paths []string) {
	w.metrics.RecordContentWrite(entity, operation)
	if w.invalidator != nil {
		w.invalidator.Invalidate(ctx, paths...)
	}
	if w.audit == nil {
		return
	}

	var payload []byte
	if values != nil {
		encoded, err := json.Marshal(values)
		if err != nil {
			w.logger.Warn("failed to encode audit values", zap.String("entity", entity), zap.Error(err))
		} else {
			payload = encoded
		}
	}
	meta := RequestMetaFrom(ctx)
	userID := actor.UserID
	resourceID := id
	if err := w.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     auditAction(operation),
		Resource:   entity,
		ResourceID: &resourceID,
		NewValues:  payload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		w.logger.Warn("failed to record audit log", zap.String("entity", entity), zap.String("id", id), zap.Error(err))
	}
}

func auditAction(operation string) string {
	switch operation {
	case operationCreate:
		return models.AuditActionCreate
	case operationDelete:
		return models.AuditActionDelete
	default:
		return models.AuditActionUpdate
	}
}

func operationFor(created bool) string {
	if created {
		return operationCreate
	}
	return operationUpdate
}
