package notifications

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/recipients"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestDispatchDeliversToEveryRecipientAndMarksOnce(t *testing.T) {
	is, ctx, d, transport, notifier, _ := testSetup(t, "a@example.com", "b@example.com")

	report, err := d.Dispatch(ctx, overheating())
	is.NoErr(err)
	is.Equal(report, Report{Attempted: 2, Delivered: 2})

	is.Equal(len(transport.SendCalls()), 2)
	is.Equal(len(notifier.MarkNotifiedCalls()), 1)
	is.Equal(notifier.MarkNotifiedCalls()[0].AlertID, "alert1")
}

func TestFailingRecipientDoesNotStopOthers(t *testing.T) {
	is, ctx, d, transport, notifier, _ := testSetup(t, "broken@example.com", "b@example.com")

	transport.SendFunc = func(ctx context.Context, to string, msg Message) error {
		if to == "broken@example.com" {
			return errors.New("mailbox unavailable")
		}
		return nil
	}

	report, err := d.Dispatch(ctx, overheating())
	is.True(errors.Is(err, ErrDispatchFailed))
	is.Equal(report, Report{Attempted: 2, Delivered: 1, Failed: 1})
	is.Equal(len(transport.SendCalls()), 2)
	is.Equal(len(notifier.MarkNotifiedCalls()), 1)
}

func TestNoRecipientsDoesNotMarkNotified(t *testing.T) {
	is, ctx, d, transport, notifier, _ := testSetup(t)

	report, err := d.Dispatch(ctx, overheating())
	is.NoErr(err)
	is.Equal(report.Attempted, 0)
	is.Equal(len(transport.SendCalls()), 0)
	is.Equal(len(notifier.MarkNotifiedCalls()), 0)
}

func TestResolverFailureIsReported(t *testing.T) {
	is, ctx, d, _, notifier, resolver := testSetup(t)

	resolver.ResolveFunc = func(ctx context.Context, severity types.Severity) ([]types.Recipient, error) {
		return nil, errors.New("store down")
	}

	_, err := d.Dispatch(ctx, overheating())
	is.True(errors.Is(err, ErrDispatchFailed))
	is.Equal(len(notifier.MarkNotifiedCalls()), 0)
}

func TestMarkNotifiedFailureIsNotFatal(t *testing.T) {
	is, ctx, d, _, notifier, _ := testSetup(t, "a@example.com")

	notifier.MarkNotifiedFunc = func(ctx context.Context, alertID string) error {
		return errors.New("store down")
	}

	report, err := d.Dispatch(ctx, overheating())
	is.NoErr(err)
	is.Equal(report.Delivered, 1)
}

func TestRenderedMessageCarriesAlertDetails(t *testing.T) {
	is, ctx, d, transport, _, _ := testSetup(t, "a@example.com")

	_, err := d.Dispatch(ctx, overheating())
	is.NoErr(err)

	msg := transport.SendCalls()[0].Msg
	is.Equal(msg.Subject, "[Critical] Overheating - Press 01")
	is.True(strings.Contains(msg.Text, "95.00 °C"))
	is.True(strings.Contains(msg.Text, "90.00 °C"))
	is.True(strings.Contains(msg.HTML, "#ef4444"))
}

func TestRenderEscapesHTML(t *testing.T) {
	is := is.New(t)

	a := overheating()
	a.MachineName = "<script>alert(1)</script>"

	msg, err := Render(a)
	is.NoErr(err)
	is.True(!strings.Contains(msg.HTML, "<script>"))
}

func TestEnqueueDropsWhenQueueIsFull(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	d := New(Config{QueueSize: 1, Workers: 1}, &recipients.ResolverMock{}, &TransportMock{}, &NotifierMock{})

	is.True(d.Enqueue(ctx, overheating()))
	is.True(!d.Enqueue(ctx, overheating()))
	is.Equal(d.Status().QueueDepth, 1)
}

func TestWorkersDrainQueue(t *testing.T) {
	is, ctx, d, _, notifier, _ := testSetup(t, "a@example.com")

	var marked atomic.Int32
	notifier.MarkNotifiedFunc = func(ctx context.Context, alertID string) error {
		marked.Add(1)
		return nil
	}

	d.Start(ctx)
	defer d.Stop()

	for i := 0; i < 5; i++ {
		is.True(d.Enqueue(ctx, overheating()))
	}

	deadline := time.Now().Add(2 * time.Second)
	for marked.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	is.Equal(marked.Load(), int32(5))
}

func TestWorkerSurvivesPanickingTransport(t *testing.T) {
	is, ctx, d, transport, notifier, _ := testSetup(t, "a@example.com")

	var calls atomic.Int32
	transport.SendFunc = func(ctx context.Context, to string, msg Message) error {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return nil
	}

	var marked atomic.Int32
	notifier.MarkNotifiedFunc = func(ctx context.Context, alertID string) error {
		marked.Add(1)
		return nil
	}

	d = New(Config{QueueSize: 4, Workers: 1}, d.(*dispatcher).resolver, transport, notifier)
	d.Start(ctx)
	defer d.Stop()

	d.Enqueue(ctx, overheating())
	d.Enqueue(ctx, overheating())

	deadline := time.Now().Add(2 * time.Second)
	for marked.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	is.Equal(marked.Load(), int32(1))
}

func TestSendTestUsesTransport(t *testing.T) {
	is, ctx, d, transport, notifier, _ := testSetup(t)

	is.NoErr(d.SendTest(ctx, "me@example.com"))
	is.Equal(transport.SendCalls()[0].To, "me@example.com")
	is.True(strings.HasPrefix(transport.SendCalls()[0].Msg.Subject, "[Low] Test Notification"))
	is.Equal(len(notifier.MarkNotifiedCalls()), 0)

	transport.SendFunc = func(ctx context.Context, to string, msg Message) error {
		return errors.New("refused")
	}
	is.True(errors.Is(d.SendTest(ctx, "me@example.com"), ErrDispatchFailed))
}

func TestStatusReportsTransport(t *testing.T) {
	is, _, d, _, _, _ := testSetup(t)

	s := d.Status()
	is.Equal(s.Transport, "mock")
	is.True(s.Configured)
	is.Equal(s.QueueCapacity, DefaultConfig().QueueSize)
}

func overheating() types.Alert {
	return types.Alert{
		ID: "alert1",
		AlertEvent: types.AlertEvent{
			MachineID:   "m1",
			MachineName: "Press 01",
			AlertType:   "Overheating",
			Severity:    types.SeverityCritical,
			Message:     "Temperature exceeded safe limit of 90°C",
			Value:       95,
			Threshold:   90,
			Unit:        "°C",
			OccurredAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		Status: types.AlertStatusActive,
	}
}

func testSetup(t *testing.T, addresses ...string) (*is.I, context.Context, Dispatcher, *TransportMock, *NotifierMock, *recipients.ResolverMock) {
	is := is.New(t)
	ctx := context.Background()

	resolver := &recipients.ResolverMock{
		ResolveFunc: func(ctx context.Context, severity types.Severity) ([]types.Recipient, error) {
			to := []types.Recipient{}
			for i, a := range addresses {
				to = append(to, types.Recipient{OperatorID: string(rune('a' + i)), Address: a})
			}
			return to, nil
		},
	}

	transport := &TransportMock{
		NameFunc:       func() string { return "mock" },
		ConfiguredFunc: func() bool { return true },
		SendFunc: func(ctx context.Context, to string, msg Message) error {
			return nil
		},
	}

	notifier := &NotifierMock{
		MarkNotifiedFunc: func(ctx context.Context, alertID string) error {
			return nil
		},
	}

	return is, ctx, New(DefaultConfig(), resolver, transport, notifier), transport, notifier, resolver
}
