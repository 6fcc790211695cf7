package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var tracer = otel.Tracer("machine-alerts-client")

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRequest      = errors.New("request failed")
)

//go:generate moq -rm -out client_mock.go . AlertsClient

type AlertsClient interface {
	Alerts(ctx context.Context, filter Filter) (AlertPage, error)
	Alert(ctx context.Context, alertID string) (types.Alert, error)
	Acknowledge(ctx context.Context, alertID, userID string) (types.Alert, error)
	Resolve(ctx context.Context, alertID string) (types.Alert, error)
	Stats(ctx context.Context, hours int) (types.AlertStats, error)
	Close(ctx context.Context)
}

type Filter struct {
	MachineID string
	Severity  types.Severity
	Status    types.AlertStatus
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.MachineID != "" {
		q.Set("machineId", f.MachineID)
	}
	if f.Severity.Valid() {
		q.Set("severity", f.Severity.String())
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.StartDate != nil {
		q.Set("startDate", f.StartDate.UTC().Format(time.RFC3339))
	}
	if f.EndDate != nil {
		q.Set("endDate", f.EndDate.UTC().Format(time.RFC3339))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

type Pagination struct {
	Total uint64 `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

type AlertPage struct {
	Alerts     []types.Alert `json:"alerts"`
	Pagination Pagination    `json:"pagination"`
}

type alertsClient struct {
	url        string
	httpClient http.Client
}

// NewAlertsClient returns a client that authenticates against tokenURL using
// the client credentials grant. The token is fetched once to fail early on
// bad credentials.
func NewAlertsClient(ctx context.Context, alertsURL, oauthTokenURL, oauthClientID, oauthClientSecret string) (AlertsClient, error) {
	oauthConfig := &clientcredentials.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSecret,
		TokenURL:     oauthTokenURL,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})

	token, err := oauthConfig.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get client credentials from %s: %w", oauthConfig.TokenURL, err)
	}

	if !token.Valid() {
		return nil, fmt.Errorf("an invalid token was returned from %s", oauthTokenURL)
	}

	return &alertsClient{
		url: strings.TrimSuffix(alertsURL, "/"),
		httpClient: http.Client{
			Transport: &oauth2.Transport{
				Source: oauthConfig.TokenSource(ctx),
				Base:   otelhttp.NewTransport(http.DefaultTransport),
			},
		},
	}, nil
}

func (c *alertsClient) Alerts(ctx context.Context, filter Filter) (AlertPage, error) {
	page := AlertPage{}
	err := c.do(ctx, "list-alerts", http.MethodGet, "/api/v0/alerts?"+filter.values().Encode(), nil, &page)
	return page, err
}

func (c *alertsClient) Alert(ctx context.Context, alertID string) (types.Alert, error) {
	alert := types.Alert{}
	err := c.do(ctx, "get-alert", http.MethodGet, "/api/v0/alerts/"+url.PathEscape(alertID), nil, &alert)
	return alert, err
}

func (c *alertsClient) Acknowledge(ctx context.Context, alertID, userID string) (types.Alert, error) {
	var body io.Reader
	if userID != "" {
		b, _ := json.Marshal(map[string]string{"userId": userID})
		body = strings.NewReader(string(b))
	}

	alert := types.Alert{}
	err := c.do(ctx, "acknowledge-alert", http.MethodPatch, "/api/v0/alerts/"+url.PathEscape(alertID)+"/acknowledge", body, &alert)
	return alert, err
}

func (c *alertsClient) Resolve(ctx context.Context, alertID string) (types.Alert, error) {
	alert := types.Alert{}
	err := c.do(ctx, "resolve-alert", http.MethodPatch, "/api/v0/alerts/"+url.PathEscape(alertID)+"/resolve", nil, &alert)
	return alert, err
}

func (c *alertsClient) Stats(ctx context.Context, hours int) (types.AlertStats, error) {
	stats := types.AlertStats{}
	err := c.do(ctx, "alert-stats", http.MethodGet, "/api/v0/alerts/stats?hours="+strconv.Itoa(hours), nil, &stats)
	return stats, err
}

func (c *alertsClient) Close(ctx context.Context) {
	c.httpClient.CloseIdleConnections()
}

func (c *alertsClient) do(ctx context.Context, op, method, path string, body io.Reader, result any) (err error) {
	ctx, span := tracer.Start(ctx, op)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (%d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w with status code %d: %s", ErrRequest, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err = json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}
