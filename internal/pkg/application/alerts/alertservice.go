package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/messaging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrAlertNotFound    = errors.New("alert not found")
	ErrStoreUnavailable = errors.New("alert store unavailable")
)

const (
	DefaultRetention   time.Duration = 30 * 24 * time.Hour
	DefaultStatsWindow time.Duration = 24 * time.Hour
	TopMachines        int           = 10
)

var tracer = otel.Tracer("iot-machine-alerts/alerts")

//go:generate moq -rm -out alertservice_mock.go . AlertService

type AlertService interface {
	Create(ctx context.Context, event types.AlertEvent) (types.Alert, error)
	Get(ctx context.Context, alertID string) (types.Alert, error)
	List(ctx context.Context, filter types.AlertFilter) (types.Collection[types.Alert], error)
	ListForMachine(ctx context.Context, machineID string, limit int) (types.Collection[types.Alert], error)
	Acknowledge(ctx context.Context, alertID, actor string) (types.Alert, error)
	Resolve(ctx context.Context, alertID string) (types.Alert, error)
	MarkNotified(ctx context.Context, alertID string) error
	Stats(ctx context.Context, window time.Duration) (types.AlertStats, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

type alertSvc struct {
	storage   database.AlertRepository
	publisher messaging.Publisher
	now       func() time.Time
}

type Option func(*alertSvc)

func WithClock(now func() time.Time) Option {
	return func(s *alertSvc) {
		s.now = now
	}
}

func New(storage database.AlertRepository, publisher messaging.Publisher, opts ...Option) AlertService {
	svc := &alertSvc{
		storage:   storage,
		publisher: publisher,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (svc *alertSvc) Create(ctx context.Context, event types.AlertEvent) (types.Alert, error) {
	var err error
	ctx, span := tracer.Start(ctx, "create-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = validate(event); err != nil {
		return types.Alert{}, err
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = svc.now()
	}
	event.OccurredAt = event.OccurredAt.UTC()

	alert := types.Alert{
		ID:               uuid.NewString(),
		AlertEvent:       event,
		Status:           types.AlertStatusActive,
		NotificationSent: false,
	}

	err = svc.storage.Add(ctx, alert)
	if err != nil {
		err = translate(err)
		return types.Alert{}, err
	}

	log := logging.GetFromContext(ctx)
	log.Info().
		Str("alert_id", alert.ID).
		Str("machine_id", alert.MachineID).
		Str("alert_type", alert.AlertType).
		Str("severity", alert.Severity.String()).
		Msg("alert created")

	svc.publish(ctx, &types.AlertCreated{
		Alert:     alert,
		Timestamp: alert.OccurredAt,
	})

	return alert, nil
}

func (svc *alertSvc) Get(ctx context.Context, alertID string) (types.Alert, error) {
	alert, err := svc.storage.GetByID(ctx, alertID)
	if err != nil {
		return types.Alert{}, translate(err)
	}
	return alert, nil
}

func (svc *alertSvc) List(ctx context.Context, filter types.AlertFilter) (types.Collection[types.Alert], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return types.Collection[types.Alert]{}, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return types.Collection[types.Alert]{}, fmt.Errorf("%w: end date is before start date", ErrValidation)
	}

	result, err := svc.storage.Query(ctx, filter)
	if err != nil {
		return types.Collection[types.Alert]{}, translate(err)
	}
	return result, nil
}

func (svc *alertSvc) ListForMachine(ctx context.Context, machineID string, limit int) (types.Collection[types.Alert], error) {
	if limit <= 0 {
		limit = 50
	}
	return svc.List(ctx, types.AlertFilter{MachineID: machineID, Limit: limit})
}

// Acknowledge is idempotent. Alerts that are already Acknowledged or Resolved
// are returned unchanged and keep their first acknowledgedAt.
func (svc *alertSvc) Acknowledge(ctx context.Context, alertID, actor string) (types.Alert, error) {
	var err error
	ctx, span := tracer.Start(ctx, "acknowledge-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if strings.TrimSpace(actor) == "" {
		err = fmt.Errorf("%w: acknowledging requires a user id", ErrValidation)
		return types.Alert{}, err
	}

	alert, changed, err := svc.storage.Acknowledge(ctx, alertID, actor, svc.now().UTC())
	if err != nil {
		err = translate(err)
		return types.Alert{}, err
	}

	log := logging.GetFromContext(ctx).With().Str("alert_id", alertID).Logger()

	if !changed {
		log.Debug().Str("status", string(alert.Status)).Msg("alert not active, acknowledge ignored")
		return alert, nil
	}

	log.Info().Str("user_id", actor).Msg("alert acknowledged")

	svc.publish(ctx, &types.AlertAcknowledged{
		ID:             alert.ID,
		MachineID:      alert.MachineID,
		AcknowledgedBy: actor,
		Timestamp:      *alert.AcknowledgedAt,
	})

	return alert, nil
}

// Resolve is idempotent. A Resolved alert keeps its first resolvedAt.
func (svc *alertSvc) Resolve(ctx context.Context, alertID string) (types.Alert, error) {
	var err error
	ctx, span := tracer.Start(ctx, "resolve-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	alert, changed, err := svc.storage.Resolve(ctx, alertID, svc.now().UTC())
	if err != nil {
		err = translate(err)
		return types.Alert{}, err
	}

	if !changed {
		return alert, nil
	}

	log := logging.GetFromContext(ctx)
	log.Info().Str("alert_id", alertID).Msg("alert resolved")

	svc.publish(ctx, &types.AlertResolved{
		ID:        alert.ID,
		MachineID: alert.MachineID,
		Timestamp: *alert.ResolvedAt,
	})

	return alert, nil
}

func (svc *alertSvc) MarkNotified(ctx context.Context, alertID string) error {
	return translate(svc.storage.MarkNotified(ctx, alertID))
}

func (svc *alertSvc) Stats(ctx context.Context, window time.Duration) (types.AlertStats, error) {
	if window <= 0 {
		window = DefaultStatsWindow
	}

	stats, err := svc.storage.Stats(ctx, svc.now().Add(-window), TopMachines)
	if err != nil {
		return types.AlertStats{}, translate(err)
	}
	return stats, nil
}

// Cleanup deletes Resolved alerts whose resolvedAt is older than olderThan.
func (svc *alertSvc) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = DefaultRetention
	}

	deleted, err := svc.storage.DeleteResolvedBefore(ctx, svc.now().Add(-olderThan))
	if err != nil {
		return 0, translate(err)
	}

	log := logging.GetFromContext(ctx)
	log.Info().Int64("deleted", deleted).Dur("older_than", olderThan).Msg("cleaned up resolved alerts")

	return deleted, nil
}

func (svc *alertSvc) publish(ctx context.Context, msg messaging.TopicMessage) {
	if err := svc.publisher.Publish(ctx, msg); err != nil {
		log := logging.GetFromContext(ctx)
		log.Warn().Err(err).Str("topic", msg.TopicName()).Msg("failed to publish alert event")
	}
}

func validate(event types.AlertEvent) error {
	missing := []string{}

	if strings.TrimSpace(event.MachineID) == "" {
		missing = append(missing, "machineId")
	}
	if strings.TrimSpace(event.AlertType) == "" {
		missing = append(missing, "alertType")
	}
	if !event.Severity.Valid() {
		missing = append(missing, "severity")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing or invalid %s", ErrValidation, strings.Join(missing, ", "))
	}

	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrAlertNotFound
	case errors.Is(err, database.ErrStoreUnavailable):
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err.Error())
	}
	return err
}
