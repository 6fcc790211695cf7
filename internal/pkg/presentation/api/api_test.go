package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/alerts"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/recipients"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/samples"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/messaging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/router"
	"github.com/diwise/iot-machine-alerts/internal/pkg/presentation/api/auth"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestHealthIsPublic(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodGet, "/health", "", "")
	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodGet, "/api/v0/alerts", "", "")
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestCreateAndFetchAlert(t *testing.T) {
	is, f := testSetup(t)

	resp, body := f.do(http.MethodPost, "/api/v0/alerts", f.operator, `{"machineId":"m1","machineName":"Press 01","alertType":"Overheating","severity":"Critical","message":"too hot","value":95,"threshold":90,"unit":"°C"}`)
	is.Equal(resp.StatusCode, http.StatusCreated)

	created := types.Alert{}
	is.NoErr(json.Unmarshal(body, &created))
	is.Equal(created.Status, types.AlertStatusActive)
	is.Equal(len(f.dispatcher.EnqueueCalls()), 1)

	resp, body = f.do(http.MethodGet, "/api/v0/alerts/"+created.ID, f.operator, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	fetched := types.Alert{}
	is.NoErr(json.Unmarshal(body, &fetched))
	is.Equal(fetched.ID, created.ID)
	is.Equal(fetched.Severity, types.SeverityCritical)
}

func TestInvalidAlertIsBadRequest(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodPost, "/api/v0/alerts", f.operator, `{"machineId":"m1"}`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = f.do(http.MethodPost, "/api/v0/alerts", f.operator, `not json`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestUnknownAlertIsNotFound(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodGet, "/api/v0/alerts/nosuchalert", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusNotFound)

	resp, _ = f.do(http.MethodPatch, "/api/v0/alerts/nosuchalert/resolve", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestAcknowledgeFallsBackToTokenUser(t *testing.T) {
	is, f := testSetup(t)

	a := f.createAlert(t)

	resp, body := f.do(http.MethodPatch, "/api/v0/alerts/"+a.ID+"/acknowledge", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	acked := types.Alert{}
	is.NoErr(json.Unmarshal(body, &acked))
	is.Equal(acked.Status, types.AlertStatusAcknowledged)
	is.Equal(*acked.AcknowledgedBy, "op1")
}

func TestAcknowledgeWithExplicitUser(t *testing.T) {
	is, f := testSetup(t)

	a := f.createAlert(t)

	resp, body := f.do(http.MethodPatch, "/api/v0/alerts/"+a.ID+"/acknowledge", f.operator, `{"userId":"user42"}`)
	is.Equal(resp.StatusCode, http.StatusOK)

	acked := types.Alert{}
	is.NoErr(json.Unmarshal(body, &acked))
	is.Equal(*acked.AcknowledgedBy, "user42")

	resp, body = f.do(http.MethodPatch, "/api/v0/alerts/"+a.ID+"/resolve", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	resolved := types.Alert{}
	is.NoErr(json.Unmarshal(body, &resolved))
	is.Equal(resolved.Status, types.AlertStatusResolved)
	is.True(resolved.ResolvedAt != nil)
}

func TestViewerCannotWrite(t *testing.T) {
	is, f := testSetup(t)

	a := f.createAlert(t)

	resp, _ := f.do(http.MethodPatch, "/api/v0/alerts/"+a.ID+"/resolve", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusForbidden)

	resp, _ = f.do(http.MethodGet, "/api/v0/alerts/"+a.ID, f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusOK)
}

func TestListAlertsPaginatesAndFilters(t *testing.T) {
	is, f := testSetup(t)

	for i := 0; i < 3; i++ {
		f.createAlert(t)
	}

	resp, body := f.do(http.MethodGet, "/api/v0/alerts?machineId=m1&severity=critical&limit=2&page=2", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	result := alertList{}
	is.NoErr(json.Unmarshal(body, &result))
	is.Equal(len(result.Alerts), 1)
	is.Equal(result.Pagination, pagination{Total: 3, Page: 2, Limit: 2, Pages: 2})

	resp, _ = f.do(http.MethodGet, "/api/v0/alerts?severity=extreme", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = f.do(http.MethodGet, "/api/v0/alerts?startDate=2024-05-02&endDate=2024-05-01", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, body = f.do(http.MethodGet, "/api/v0/alerts?status=resolved", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.NoErr(json.Unmarshal(body, &result))
	is.Equal(len(result.Alerts), 0)
}

func TestStats(t *testing.T) {
	is, f := testSetup(t)

	f.createAlert(t)

	resp, body := f.do(http.MethodGet, "/api/v0/alerts/stats?hours=1", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	stats := types.AlertStats{}
	is.NoErr(json.Unmarshal(body, &stats))
	is.Equal(stats.Summary.Total, int64(1))
	is.Equal(stats.Summary.Critical, int64(1))
}

func TestCleanupRequiresAdmin(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodDelete, "/api/v0/alerts/cleanup?days=30", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusForbidden)

	resp, body := f.do(http.MethodDelete, "/api/v0/alerts/cleanup?days=30", f.admin, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(strings.TrimSpace(string(body)), `{"deleted":0}`)
}

func TestMachinesAndMachineAlerts(t *testing.T) {
	is, f := testSetup(t)

	f.createAlert(t)

	resp, body := f.do(http.MethodGet, "/api/v0/machines", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	machines := []types.Machine{}
	is.NoErr(json.Unmarshal(body, &machines))
	is.Equal(len(machines), 1)
	is.Equal(machines[0].Name, "Press 01")

	resp, body = f.do(http.MethodGet, "/api/v0/machines/m1/alerts?limit=10", f.viewer, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	list := []types.Alert{}
	is.NoErr(json.Unmarshal(body, &list))
	is.Equal(len(list), 1)
}

func TestMetricsIngest(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodPost, "/api/v0/machines/m1/metrics", f.admin, `{"temperature":95,"voltage":230}`)
	is.Equal(resp.StatusCode, http.StatusAccepted)

	sample, ok := f.samples.Latest("m1")
	is.True(ok)
	temperature, _ := sample.Value(types.MetricTemperature)
	is.Equal(temperature, 95.0)

	resp, _ = f.do(http.MethodPost, "/api/v0/machines/m1/metrics", f.admin, `{}`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = f.do(http.MethodPost, "/api/v0/machines/nosuchmachine/metrics", f.admin, `{"temperature":95}`)
	is.Equal(resp.StatusCode, http.StatusNotFound)

	resp, _ = f.do(http.MethodPost, "/api/v0/machines/m1/metrics", f.viewer, `{"temperature":95}`)
	is.Equal(resp.StatusCode, http.StatusForbidden)
}

func TestTemperatureOnlyIngestKeepsOtherReadingsUnreported(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodPost, "/api/v0/machines/m1/metrics", f.admin, `{"temperature":95}`)
	is.Equal(resp.StatusCode, http.StatusAccepted)

	sample, ok := f.samples.Latest("m1")
	is.True(ok)
	is.Equal(sample.Reported(), []string{types.MetricTemperature})

	_, ok = sample.Value(types.MetricVoltage)
	is.True(!ok)

	resp, _ = f.do(http.MethodPost, "/api/v0/machines/m1/metrics", f.admin, `{"voltage":230}`)
	is.Equal(resp.StatusCode, http.StatusAccepted)

	sample, _ = f.samples.Latest("m1")
	is.Equal(sample.Reported(), []string{types.MetricTemperature, types.MetricVoltage})
}

func TestNotificationSettings(t *testing.T) {
	is, f := testSetup(t)

	resp, body := f.do(http.MethodGet, "/api/v0/notifications/settings", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusOK)

	settings := types.NotificationSettings{}
	is.NoErr(json.Unmarshal(body, &settings))
	is.Equal(settings.UserID, "op1")
	is.Equal(settings.EmailAddress, "ada@example.com")
	is.Equal(settings.MinSeverity, types.SeverityHigh)

	resp, body = f.do(http.MethodPut, "/api/v0/notifications/settings", f.operator, `{"minSeverity":"Low","cooldownMinutes":30}`)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.NoErr(json.Unmarshal(body, &settings))
	is.Equal(settings.MinSeverity, types.SeverityLow)
	is.Equal(settings.CooldownMinutes, 30)

	resp, _ = f.do(http.MethodPut, "/api/v0/notifications/settings", f.operator, `{"cooldownMinutes":0}`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestTestNotificationAndStatus(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.do(http.MethodPost, "/api/v0/notifications/test", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(f.dispatcher.SendTestCalls()[0].To, "ada@example.com")

	resp, body := f.do(http.MethodGet, "/api/v0/notifications/status", f.operator, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(string(body), `"transport":"log"`))
}

type fixture struct {
	server     *httptest.Server
	samples    *samples.Store
	dispatcher *notifications.DispatcherMock

	viewer   string
	operator string
	admin    string
}

func (f *fixture) do(method, path, token, body string) (*http.Response, []byte) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, f.server.URL+path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func (f *fixture) createAlert(t *testing.T) types.Alert {
	resp, body := f.do(http.MethodPost, "/api/v0/alerts", f.operator, `{"machineId":"m1","machineName":"Press 01","alertType":"Overheating","severity":"Critical","message":"too hot","value":95,"threshold":90,"unit":"°C"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("could not create alert: %d %s", resp.StatusCode, body)
	}

	a := types.Alert{}
	_ = json.Unmarshal(body, &a)
	return a
}

func testSetup(t *testing.T) (*is.I, *fixture) {
	is := is.New(t)
	ctx := context.Background()

	connect := database.NewSQLiteConnector(ctx)

	alertRepo, err := database.NewAlertRepository(connect)
	is.NoErr(err)
	operatorRepo, err := database.NewOperatorRepository(connect)
	is.NoErr(err)
	machineRepo, err := database.NewMachineRepository(connect)
	is.NoErr(err)

	is.NoErr(database.SeedOperators(ctx, operatorRepo, strings.NewReader("id;name;email;role;active\nop1;Ada;ada@example.com;operator;true")))
	is.NoErr(database.SeedMachines(ctx, machineRepo, strings.NewReader("id;name;type;location;active\nm1;Press 01;press;Hall A;true")))

	dispatcher := &notifications.DispatcherMock{
		EnqueueFunc:  func(ctx context.Context, alert types.Alert) bool { return true },
		SendTestFunc: func(ctx context.Context, to string) error { return nil },
		StatusFunc: func() notifications.Status {
			return notifications.Status{Transport: "log"}
		},
	}

	store := samples.NewStore()

	policies, err := os.Open("../../../../assets/config/authz.rego")
	is.NoErr(err)
	defer policies.Close()

	tokens := auth.NewHS256("test-secret")
	authenticator, err := auth.NewAuthenticator(ctx, tokens, policies)
	is.NoErr(err)

	mux := RegisterHandlers(ctx, router.New(ctx, "test"), authenticator, Services{
		Alerts:     alerts.New(alertRepo, messaging.NewNoopPublisher()),
		Machines:   machineRepo,
		Samples:    store,
		Recipients: recipients.New(operatorRepo, recipients.DefaultSettings()),
		Dispatcher: dispatcher,
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	token := func(sub, role string) string {
		_, s, err := tokens.Encode(map[string]any{"sub": sub, "role": role})
		is.NoErr(err)
		return s
	}

	return is, &fixture{
		server:     server,
		samples:    store,
		dispatcher: dispatcher,
		viewer:     token("viewer1", "viewer"),
		operator:   token("op1", "operator"),
		admin:      token("admin1", "admin"),
	}
}
