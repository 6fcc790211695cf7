package notifications

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/recipients"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iot-machine-alerts/notifications")

var ErrDispatchFailed = errors.New("notification dispatch failed")

//go:generate moq -rm -out transport_mock.go . Transport

type Transport interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, to string, msg Message) error
}

//go:generate moq -rm -out notifier_mock.go . Notifier

// Notifier records that an alert has been sent to its recipients.
type Notifier interface {
	MarkNotified(ctx context.Context, alertID string) error
}

type Report struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

type Status struct {
	Transport     string `json:"transport"`
	Configured    bool   `json:"configured"`
	QueueDepth    int    `json:"queueDepth"`
	QueueCapacity int    `json:"queueCapacity"`
}

type Config struct {
	QueueSize   int           `yaml:"queueSize"`
	Workers     int           `yaml:"workers"`
	SendTimeout time.Duration `yaml:"sendTimeout"`
}

func DefaultConfig() Config {
	return Config{
		QueueSize:   256,
		Workers:     2,
		SendTimeout: 10 * time.Second,
	}
}

//go:generate moq -rm -out dispatcher_mock.go . Dispatcher

type Dispatcher interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(ctx context.Context, alert types.Alert) bool
	Dispatch(ctx context.Context, alert types.Alert) (Report, error)
	SendTest(ctx context.Context, to string) error
	Status() Status
}

type dispatcher struct {
	cfg       Config
	resolver  recipients.Resolver
	transport Transport
	notifier  Notifier
	now       func() time.Time

	queue  chan types.Alert
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

type Option func(*dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *dispatcher) {
		d.now = now
	}
}

func New(cfg Config, resolver recipients.Resolver, transport Transport, notifier Notifier, opts ...Option) Dispatcher {
	defaults := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaults.SendTimeout
	}

	d := &dispatcher{
		cfg:       cfg,
		resolver:  resolver,
		transport: transport,
		notifier:  notifier,
		now:       time.Now,
		queue:     make(chan types.Alert, cfg.QueueSize),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return
	}

	ctx, d.cancel = context.WithCancel(ctx)
	ctx, log := logging.WithComponent(ctx, "dispatcher")
	log.Info().Int("workers", d.cfg.Workers).Int("queue_size", d.cfg.QueueSize).Str("transport", d.transport.Name()).Msg("starting notification dispatcher")

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop cancels the workers and waits for them to finish the alert they are
// currently sending. Alerts still queued are dropped.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	d.wg.Wait()
}

func (d *dispatcher) Enqueue(ctx context.Context, alert types.Alert) bool {
	select {
	case d.queue <- alert:
		metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		metrics.DispatchQueueDropped.Inc()
		log := logging.GetFromContext(ctx)
		log.Warn().Str("alert_id", alert.ID).Msg("notification queue is full, dropping alert")
		return false
	}
}

func (d *dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	log := logging.GetFromContext(ctx).With().Int("worker", id).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case alert := <-d.queue:
			metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
			d.process(logging.NewContextWithLogger(ctx, log), alert)
		}
	}
}

func (d *dispatcher) process(ctx context.Context, alert types.Alert) {
	log := logging.GetFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			metrics.PanicsRecovered.WithLabelValues("dispatcher").Inc()
			log.Error().Str("alert_id", alert.ID).Interface("panic", r).Str("stack", string(debug.Stack())).Msg("recovered from panic while dispatching")
		}
	}()

	report, err := d.Dispatch(ctx, alert)
	if err != nil {
		log.Warn().Err(err).Str("alert_id", alert.ID).Int("delivered", report.Delivered).Int("failed", report.Failed).Msg("alert dispatched with failures")
		return
	}

	log.Debug().Str("alert_id", alert.ID).Int("delivered", report.Delivered).Msg("alert dispatched")
}

// Dispatch sends the alert to every resolved recipient. A failing recipient
// does not prevent delivery to the others. The alert is marked as notified
// once, after all recipients have been attempted.
func (d *dispatcher) Dispatch(ctx context.Context, alert types.Alert) (report Report, err error) {
	ctx, span := tracer.Start(ctx, "dispatch")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx).With().Str("alert_id", alert.ID).Logger()

	to, err := d.resolver.Resolve(ctx, alert.Severity)
	if err != nil {
		return report, fmt.Errorf("%w: could not resolve recipients: %w", ErrDispatchFailed, err)
	}

	if len(to) == 0 {
		log.Debug().Str("severity", alert.Severity.String()).Msg("no recipients for alert")
		return report, nil
	}

	msg, err := Render(alert)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	errs := []error{}

	for _, r := range to {
		report.Attempted++

		if sendErr := d.send(ctx, r.Address, msg); sendErr != nil {
			report.Failed++
			log.Warn().Err(sendErr).Str("operator_id", r.OperatorID).Msg("failed to deliver notification")
			errs = append(errs, fmt.Errorf("%w to %s: %w", ErrDispatchFailed, r.OperatorID, sendErr))
			continue
		}

		report.Delivered++
	}

	if markErr := d.notifier.MarkNotified(ctx, alert.ID); markErr != nil {
		log.Error().Err(markErr).Msg("failed to mark alert as notified")
	}

	log.Info().Int("delivered", report.Delivered).Int("failed", report.Failed).Msg("notifications sent")

	return report, errors.Join(errs...)
}

func (d *dispatcher) send(ctx context.Context, to string, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	err := d.transport.Send(ctx, to, msg)

	result := "delivered"
	if err != nil {
		result = "failed"
	}
	metrics.Notifications.WithLabelValues(d.transport.Name(), result).Inc()

	return err
}

func (d *dispatcher) SendTest(ctx context.Context, to string) error {
	alert := types.Alert{
		ID: "test",
		AlertEvent: types.AlertEvent{
			MachineID:   "test-machine",
			MachineName: "Test Machine",
			AlertType:   "Test Notification",
			Severity:    types.SeverityLow,
			Message:     "This is a test notification from the machine alert service",
			OccurredAt:  d.now().UTC(),
		},
		Status: types.AlertStatusActive,
	}

	msg, err := Render(alert)
	if err != nil {
		return err
	}

	if err = d.send(ctx, to, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	return nil
}

func (d *dispatcher) Status() Status {
	return Status{
		Transport:     d.transport.Name(),
		Configured:    d.transport.Configured(),
		QueueDepth:    len(d.queue),
		QueueCapacity: cap(d.queue),
	}
}
