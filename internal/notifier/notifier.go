package notifier

import (
	"context"
	"time"

	"SplitChart/internal/chart"
	"SplitChart/internal/logger"
	"SplitChart/internal/metrics"
	"SplitChart/internal/model"
)

// Notifier delivers a formatted message somewhere a human will see it.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NoopNotifier is used when no bot token is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) Notify(_ context.Context, _ string) error { return nil }

// CrossingAlerts returns an engine listener that sends an alert for every
// side change of the newest segment. Delivery runs in the background so the
// engine is never held up by the network.
func CrossingAlerts(ctx context.Context, n Notifier, m *metrics.Metrics) chart.CrossingListener {
	log := logger.Component("alerts")
	return func(prev, next model.Side, p *chart.Pass) {
		text := FormatCrossingAlert(prev, next, p)
		go func() {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if err := n.Notify(ctx, text); err != nil {
				log.WithError(err).WithField("pass", p.ID).Error("send crossing alert")
				return
			}
			if m != nil {
				m.NotificationsSent.Inc()
			}
		}()
	}
}
