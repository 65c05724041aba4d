package admin_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/l4-dispatch/internal/admin"
	"github.com/angeloszaimis/l4-dispatch/internal/dispatcher"
	"github.com/angeloszaimis/l4-dispatch/internal/healthcheck"
	"github.com/angeloszaimis/l4-dispatch/internal/registry"
	"github.com/angeloszaimis/l4-dispatch/internal/strategy"
	"github.com/angeloszaimis/l4-dispatch/internal/target"
)

var _ = Describe("Handler", func() {
	var (
		reg    *registry.Registry
		disp   *dispatcher.Dispatcher
		router http.Handler
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		reg = registry.New()
		monitor := healthcheck.NewMonitor(reg, healthcheck.SelfReportProbe(),
			time.Second, time.Second, log)
		disp = dispatcher.New(reg, strategy.NewRoundRobinStrategy(), monitor, nil, log)

		handler := admin.NewHandler(log, disp, reg, nil, strategy.TypeRoundRobin)
		router = handler.Router()
	})

	Describe("GET /healthz", func() {
		It("should respond ok", func() {
			rec := do(http.MethodGet, "/healthz", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("POST /targets", func() {
		It("should create a target that enters rotation immediately", func() {
			rec := do(http.MethodPost, "/targets", `{"name":"server-1"}`)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var status admin.TargetStatus
			Expect(json.Unmarshal(rec.Body.Bytes(), &status)).To(Succeed())
			Expect(status.Name).To(Equal("server-1"))
			Expect(status.Eligible).To(BeTrue())

			Expect(reg.Lookup("server-1")).NotTo(BeNil())
		})

		It("should generate a name when none is given", func() {
			rec := do(http.MethodPost, "/targets", `{}`)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var status admin.TargetStatus
			Expect(json.Unmarshal(rec.Body.Bytes(), &status)).To(Succeed())
			Expect(status.Name).NotTo(BeEmpty())
		})

		It("should answer 200 for an existing name without duplicating it", func() {
			do(http.MethodPost, "/targets", `{"name":"server-1"}`)
			rec := do(http.MethodPost, "/targets", `{"name":"server-1"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reg.Len()).To(Equal(1))
		})

		It("should reject malformed bodies", func() {
			rec := do(http.MethodPost, "/targets", `{not json`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /targets/{name}", func() {
		It("should remove the target", func() {
			reg.Add(target.New("server-1"))

			rec := do(http.MethodDelete, "/targets/server-1", "")
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(reg.Len()).To(Equal(0))
		})

		It("should stay a no-op for unknown targets", func() {
			rec := do(http.MethodDelete, "/targets/ghost", "")
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})

	Describe("drain and undrain", func() {
		BeforeEach(func() {
			reg.Add(target.New("server-1"))
		})

		It("should take the target out of rotation immediately", func() {
			rec := do(http.MethodPost, "/targets/server-1/drain", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			t := reg.Lookup("server-1")
			Expect(t.IsAvailable()).To(BeFalse())
			Expect(t.IsHealthy()).To(BeTrue(), "drain must not touch health")
			Expect(reg.HasEligible()).To(BeFalse())
		})

		It("should restore rotation on undrain", func() {
			do(http.MethodPost, "/targets/server-1/drain", "")
			rec := do(http.MethodPost, "/targets/server-1/undrain", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reg.HasEligible()).To(BeTrue())
		})

		It("should 404 for unknown targets", func() {
			rec := do(http.MethodPost, "/targets/ghost/drain", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /targets", func() {
		It("should list every target with its state", func() {
			reg.Add(target.New("server-1"))
			unhealthy := target.New("server-2")
			unhealthy.SetHealthy(false)
			reg.Add(unhealthy)

			rec := do(http.MethodGet, "/targets", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var statuses []admin.TargetStatus
			Expect(json.Unmarshal(rec.Body.Bytes(), &statuses)).To(Succeed())
			Expect(statuses).To(HaveLen(2))
			Expect(statuses[0].Eligible).To(BeTrue())
			Expect(statuses[1].Eligible).To(BeFalse())
		})
	})

	Describe("strategy endpoints", func() {
		It("should report the active strategy", func() {
			rec := do(http.MethodGet, "/strategy", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(strategy.TypeRoundRobin))
		})

		It("should swap the strategy at runtime", func() {
			rec := do(http.MethodPut, "/strategy", `{"type":"random"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = do(http.MethodGet, "/strategy", "")
			Expect(rec.Body.String()).To(ContainSubstring("random"))
		})

		It("should reject unknown strategy names", func() {
			rec := do(http.MethodPut, "/strategy", `{"type":"weighted-magic"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /dispatch", func() {
		It("should 503 with no targets configured", func() {
			rec := do(http.MethodPost, "/dispatch", `{"work":"req-1"}`)
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("should 503 when every target is down", func() {
			t := target.New("server-1")
			t.SetHealthy(false)
			reg.Add(t)

			rec := do(http.MethodPost, "/dispatch", `{"work":"req-1"}`)
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("should dispatch to an eligible target", func() {
			reg.Add(target.New("server-1"))

			rec := do(http.MethodPost, "/dispatch", `{"work":"req-1"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("dispatched"))
		})
	})
})
