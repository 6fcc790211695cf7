package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/alerts"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/recipients"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/samples"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-machine-alerts/internal/pkg/presentation/api/auth"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iot-machine-alerts/api")

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type Machines interface {
	ActiveMachines(ctx context.Context) ([]types.Machine, error)
	GetMachine(ctx context.Context, machineID string) (types.Machine, error)
}

type SampleSink interface {
	Put(sample types.MetricSample) error
}

type Services struct {
	Alerts     alerts.AlertService
	Machines   Machines
	Samples    SampleSink
	Recipients recipients.Resolver
	Dispatcher notifications.Dispatcher
	Live       http.HandlerFunc
	Events     http.Handler
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, authenticator auth.Authenticator, svc Services) *chi.Mux {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v0", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator.Verify()...)

			read := authenticator.RequireAccess(auth.AlertsRead)
			write := authenticator.RequireAccess(auth.AlertsWrite)
			admin := authenticator.RequireAccess(auth.AlertsAdmin)
			self := authenticator.RequireAccess(auth.NotificationsSelf)

			r.Route("/alerts", func(r chi.Router) {
				r.With(read).Get("/", listAlertsHandler(svc.Alerts))
				r.With(read).Get("/stats", alertStatsHandler(svc.Alerts))
				if svc.Live != nil {
					r.With(read).Get("/live", svc.Live)
				}
				if svc.Events != nil {
					r.With(read).Method(http.MethodGet, "/events", svc.Events)
				}
				r.With(admin).Delete("/cleanup", cleanupHandler(svc.Alerts))
				r.With(read).Get("/{alertID}", getAlertHandler(svc.Alerts))
				r.With(write).Post("/", createAlertHandler(svc.Alerts, svc.Dispatcher))
				r.With(write).Patch("/{alertID}/acknowledge", acknowledgeHandler(svc.Alerts))
				r.With(write).Patch("/{alertID}/resolve", resolveHandler(svc.Alerts))
			})

			r.Route("/machines", func(r chi.Router) {
				r.With(read).Get("/", listMachinesHandler(svc.Machines))
				r.With(read).Get("/{machineID}/alerts", machineAlertsHandler(svc.Alerts))
				r.With(authenticator.RequireAccess(auth.MetricsWrite)).Post("/{machineID}/metrics", ingestMetricsHandler(svc.Machines, svc.Samples))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(self)
				r.Get("/settings", getSettingsHandler(svc.Recipients))
				r.Put("/settings", updateSettingsHandler(svc.Recipients))
				r.Post("/test", sendTestHandler(svc.Recipients, svc.Dispatcher))
				r.Get("/status", notificationStatusHandler(svc.Dispatcher))
			})
		})
	})

	return router
}

type pagination struct {
	Total uint64 `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

type alertList struct {
	Alerts     []types.Alert `json:"alerts"`
	Pagination pagination    `json:"pagination"`
}

func listAlertsHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		filter, page, err := parseAlertFilter(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		result, err := svc.List(ctx, filter)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, alertList{
			Alerts: nonNil(result.Data),
			Pagination: pagination{
				Total: result.TotalCount,
				Page:  page,
				Limit: filter.Limit,
				Pages: int(math.Ceil(float64(result.TotalCount) / float64(filter.Limit))),
			},
		})
	}
}

func parseAlertFilter(r *http.Request) (types.AlertFilter, int, error) {
	q := r.URL.Query()
	filter := types.AlertFilter{
		MachineID: q.Get("machineId"),
		Status:    types.AlertStatus(q.Get("status")),
	}

	if s := q.Get("severity"); s != "" {
		severity, err := types.ParseSeverity(s)
		if err != nil {
			return filter, 0, errors.Join(alerts.ErrValidation, err)
		}
		filter.Severity = severity
	}

	if s := q.Get("startDate"); s != "" {
		from, err := parseDate(s, false)
		if err != nil {
			return filter, 0, err
		}
		filter.From = &from
	}

	if s := q.Get("endDate"); s != "" {
		to, err := parseDate(s, true)
		if err != nil {
			return filter, 0, err
		}
		filter.To = &to
	}

	page, err := intParam(q.Get("page"), 1, 1, math.MaxInt32)
	if err != nil {
		return filter, 0, err
	}

	filter.Limit, err = intParam(q.Get("limit"), defaultPageSize, 1, maxPageSize)
	if err != nil {
		return filter, 0, err
	}

	filter.Offset = (page - 1) * filter.Limit

	return filter, page, nil
}

// parseDate accepts RFC3339 timestamps or plain dates. A plain end date
// includes the whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.Join(alerts.ErrValidation, errors.New("dates must be RFC3339 or YYYY-MM-DD"))
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return t, nil
}

func intParam(s string, def, min, max int) (int, error) {
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < min {
		return 0, errors.Join(alerts.ErrValidation, errors.New("invalid numeric parameter "+strconv.Quote(s)))
	}

	if v > max {
		v = max
	}

	return v, nil
}

func getAlertHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		alert, err := svc.Get(ctx, chi.URLParam(r, "alertID"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, alert)
	}
}

func createAlertHandler(svc alerts.AlertService, dispatcher notifications.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "create-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		event := types.AlertEvent{}
		if err = decode(r.Body, &event); err != nil {
			writeError(ctx, w, err)
			return
		}

		alert, err := svc.Create(ctx, event)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		metrics.AlertsRaised.WithLabelValues(alert.AlertType, alert.Severity.String()).Inc()
		dispatcher.Enqueue(ctx, alert)

		w.Header().Set("Location", "/api/v0/alerts/"+alert.ID)
		writeJSON(ctx, w, http.StatusCreated, alert)
	}
}

func acknowledgeHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "acknowledge-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		body := struct {
			UserID string `json:"userId"`
		}{}

		if err = decode(r.Body, &body); err != nil && !errors.Is(err, errEmptyBody) {
			writeError(ctx, w, err)
			return
		}

		if strings.TrimSpace(body.UserID) == "" {
			if user, ok := auth.UserFromContext(ctx); ok {
				body.UserID = user.ID
			}
		}

		alert, err := svc.Acknowledge(ctx, chi.URLParam(r, "alertID"), body.UserID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, alert)
	}
}

func resolveHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "resolve-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		alert, err := svc.Resolve(ctx, chi.URLParam(r, "alertID"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, alert)
	}
}

func alertStatsHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "alert-stats")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		hours, err := intParam(r.URL.Query().Get("hours"), 24, 1, 24*365)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		stats, err := svc.Stats(ctx, time.Duration(hours)*time.Hour)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, stats)
	}
}

func cleanupHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "cleanup-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		days, err := intParam(r.URL.Query().Get("days"), 30, 1, 3650)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		deleted, err := svc.Cleanup(ctx, time.Duration(days)*24*time.Hour)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, map[string]int64{"deleted": deleted})
	}
}

func listMachinesHandler(machines Machines) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-machines")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		result, err := machines.ActiveMachines(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, nonNil(result))
	}
}

func machineAlertsHandler(svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "machine-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		limit, err := intParam(r.URL.Query().Get("limit"), defaultPageSize, 1, maxPageSize)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		result, err := svc.ListForMachine(ctx, chi.URLParam(r, "machineID"), limit)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, nonNil(result.Data))
	}
}

func ingestMetricsHandler(machines Machines, sink SampleSink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "ingest-metrics")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		machineID := chi.URLParam(r, "machineID")

		if _, err = machines.GetMachine(ctx, machineID); err != nil {
			writeError(ctx, w, err)
			return
		}

		sample := types.MetricSample{}
		if err = decode(r.Body, &sample); err != nil {
			writeError(ctx, w, err)
			return
		}
		sample.MachineID = machineID

		if err = sink.Put(sample); err != nil {
			writeError(ctx, w, err)
			return
		}

		metrics.SamplesIngested.WithLabelValues("http").Inc()
		w.WriteHeader(http.StatusAccepted)
	}
}

func getSettingsHandler(resolver recipients.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-notification-settings")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		user, _ := auth.UserFromContext(ctx)

		settings, err := resolver.Settings(ctx, user.ID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, settings)
	}
}

func updateSettingsHandler(resolver recipients.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "update-notification-settings")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		user, _ := auth.UserFromContext(ctx)

		patch := recipients.SettingsPatch{}
		if err = decode(r.Body, &patch); err != nil {
			writeError(ctx, w, err)
			return
		}

		settings, err := resolver.UpdateSettings(ctx, user.ID, patch)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, settings)
	}
}

func sendTestHandler(resolver recipients.Resolver, dispatcher notifications.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "send-test-notification")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		user, _ := auth.UserFromContext(ctx)

		settings, err := resolver.Settings(ctx, user.ID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		if settings.EmailAddress == "" {
			err = errors.Join(alerts.ErrValidation, errors.New("no address to send the test notification to"))
			writeError(ctx, w, err)
			return
		}

		if err = dispatcher.SendTest(ctx, settings.EmailAddress); err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, map[string]string{"sentTo": settings.EmailAddress})
	}
}

func notificationStatusHandler(dispatcher notifications.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, dispatcher.Status())
	}
}

var errEmptyBody = errors.New("request body is empty")

func decode(body io.Reader, v any) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return errors.Join(alerts.ErrValidation, err)
	}

	if len(strings.TrimSpace(string(b))) == 0 {
		return errors.Join(alerts.ErrValidation, errEmptyBody)
	}

	if err = json.Unmarshal(b, v); err != nil {
		return errors.Join(alerts.ErrValidation, err)
	}

	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, alerts.ErrValidation),
		errors.Is(err, recipients.ErrInvalidSettings),
		errors.Is(err, samples.ErrUnknownMetric),
		errors.Is(err, samples.ErrNoMachine),
		errors.Is(err, samples.ErrNoReadings):
		return http.StatusBadRequest
	case errors.Is(err, alerts.ErrAlertNotFound), errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, alerts.ErrStoreUnavailable), errors.Is(err, database.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, notifications.ErrDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)

	log := logging.GetFromContext(ctx)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}

	writeJSON(ctx, w, status, map[string]string{"error": msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log := logging.GetFromContext(ctx)
		log.Error().Err(err).Msg("unable to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
