package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/pkg/metrics"
	"github.com/99minutos/identity-service/pkg/logger"
)

// AuditService persists authentication audit events and keeps the audit
// metrics current. Emails are redacted before they reach the log stream;
// the stored record keeps the full address.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.Action == "" {
		return errors.New("audit event missing action")
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(event.Action, strconv.FormatBool(event.Success)).Inc()
	s.log.Debug().
		Str("action", event.Action).
		Bool("success", event.Success).
		Str("email", logger.RedactEmail(event.Email)).
		Msg("audit event recorded")
	return nil
}
