package metrics_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/l4-dispatch/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	It("should count successes and failures into the total", func() {
		m.RecordSuccess()
		m.RecordSuccess()
		m.RecordFailure(metrics.ReasonNoneEligible)

		snap := m.Snapshot("round-robin")
		Expect(snap.Succeeded).To(Equal(int64(2)))
		Expect(snap.FailedByReason[metrics.ReasonNoneEligible]).To(Equal(int64(1)))
		Expect(snap.TotalDispatches).To(Equal(int64(3)))
	})

	It("should count selections per target", func() {
		m.RecordSelection("server-1")
		m.RecordSelection("server-1")
		m.RecordSelection("server-2")

		snap := m.Snapshot("round-robin")
		Expect(snap.Selections["server-1"]).To(Equal(int64(2)))
		Expect(snap.Selections["server-2"]).To(Equal(int64(1)))
	})

	It("should track health status and transition counts", func() {
		m.UpdateHealthStatus("server-1", false)
		m.UpdateHealthStatus("server-1", true)

		snap := m.Snapshot("round-robin")
		Expect(snap.HealthStatus["server-1"]).To(BeTrue())
		Expect(snap.HealthFlips["server-1"]).To(Equal(int64(2)))
	})

	It("should report the strategy it was asked about", func() {
		Expect(m.Snapshot("random").Strategy).To(Equal("random"))
	})
})

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		collector = metrics.NewCollector(64, log)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("should fold published events into the snapshot", func() {
		collector.Publish(metrics.Event{Type: metrics.EventTargetSelected, Target: "server-1"})
		collector.Publish(metrics.Event{Type: metrics.EventDispatchSucceeded})
		collector.Publish(metrics.Event{Type: metrics.EventDispatchFailed, Reason: metrics.ReasonNoTargets})
		collector.Publish(metrics.Event{Type: metrics.EventHealthChanged, Target: "server-1", Healthy: false})

		Eventually(func() int64 {
			return collector.Snapshot("round-robin").TotalDispatches
		}).Should(Equal(int64(2)))

		snap := collector.Snapshot("round-robin")
		Expect(snap.Selections["server-1"]).To(Equal(int64(1)))
		Expect(snap.FailedByReason[metrics.ReasonNoTargets]).To(Equal(int64(1)))
		Expect(snap.HealthStatus["server-1"]).To(BeFalse())
	})

	It("should not block the publisher when the buffer is full", func() {
		small := metrics.NewCollector(1, slog.New(slog.NewTextHandler(os.Stdout, nil)))

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				small.Publish(metrics.Event{Type: metrics.EventDispatchSucceeded})
			}
		}()

		Eventually(done).Should(BeClosed())
	})

	Describe("Handler", func() {
		It("should serve the snapshot as JSON", func() {
			collector.Publish(metrics.Event{Type: metrics.EventDispatchSucceeded})
			Eventually(func() int64 {
				return collector.Snapshot("x").Succeeded
			}).Should(Equal(int64(1)))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			collector.Handler(func() string { return "round-robin" })(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var snap metrics.Snapshot
			Expect(json.Unmarshal(rec.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.Strategy).To(Equal("round-robin"))
			Expect(snap.Succeeded).To(Equal(int64(1)))
		})
	})
})
