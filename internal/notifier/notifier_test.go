package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SplitChart/internal/chart"
	"SplitChart/internal/metrics"
	"SplitChart/internal/model"
)

func demoPass(t *testing.T, reference float64) *chart.Pass {
	t.Helper()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var samples []model.Sample
	for i, p := range []float64{100, 105, 102, 108, 110, 108, 99, 115} {
		samples = append(samples, model.Sample{Time: start.AddDate(0, 0, i), Price: p})
	}
	p, err := chart.Build(samples, reference, 0)
	require.NoError(t, err)
	return p
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	require.NoError(t, tn.Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetryExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	err := tn.SendWithRetry(context.Background(), "hello", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendWithRetryCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := tn.SendWithRetry(ctx, "hello", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartPolling(t *testing.T) {
	replies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if r.URL.Query().Get("offset") == "0" {
				_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /status "}}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		tn.StartPolling(ctx, func(cmd string) string { return "got " + cmd })
	}()

	select {
	case reply := <-replies:
		assert.Equal(t, "got /status", reply)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done
}

func TestFormatCrossingAlert(t *testing.T) {
	p := demoPass(t, 105)
	msg := FormatCrossingAlert(model.SideBelow, model.SideAbove, p)
	assert.Contains(t, msg, "below → above")
	assert.Contains(t, msg, "Reference: 105.00")
	assert.Contains(t, msg, "Last price: 115.00 (2024-05-08 00:00)")
	assert.Contains(t, msg, "Since: 2024-05-07")
}

func TestFormatPassSummary(t *testing.T) {
	assert.Contains(t, FormatPassSummary(nil), "no chart data")

	msg := FormatPassSummary(demoPass(t, 105))
	assert.Contains(t, msg, "Samples: 8")
	assert.Contains(t, msg, "Segments: 4 (2 above, 2 below)")
	assert.Contains(t, msg, "Now: 🟢 above")
}

type recordingNotifier struct {
	sent chan string
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	r.sent <- text
	return r.err
}

func TestCrossingAlerts(t *testing.T) {
	m := metrics.New()
	n := &recordingNotifier{sent: make(chan string, 1)}
	listener := CrossingAlerts(context.Background(), n, m)

	listener(model.SideAbove, model.SideBelow, demoPass(t, 120))
	select {
	case msg := <-n.sent:
		assert.Contains(t, msg, "above → below")
	case <-time.After(time.Second):
		t.Fatal("alert not sent")
	}
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.NotificationsSent) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCrossingAlertsFailure(t *testing.T) {
	m := metrics.New()
	n := &recordingNotifier{sent: make(chan string, 1), err: errors.New("offline")}
	CrossingAlerts(context.Background(), n, m)(model.SideAbove, model.SideBelow, demoPass(t, 120))
	<-n.sent
	assert.Never(t, func() bool {
		return testutil.ToFloat64(m.NotificationsSent) > 0
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NewNoopNotifier()
	assert.NoError(t, n.Notify(context.Background(), "ignored"))
}
