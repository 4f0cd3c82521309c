package httpx

import (
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/readykit/report-api/internal/mocks"
	"github.com/readykit/report-api/internal/service"
)

const testWebhookSecret = "test-secret"

// routerHarness wires a full router over mocked repositories so
// handler tests exercise the real service layer.
type routerHarness struct {
	router    http.Handler
	jobs      *mocks.MockJobRepository
	reports   *mocks.MockReportRepository
	callbacks *mocks.MockCallbackRepository
	views     *mocks.MockCallbackViewRepository
	engine    *mocks.MockEngineClient
}

func newRouterHarness(t *testing.T, ctrl *gomock.Controller) *routerHarness {
	t.Helper()
	h := &routerHarness{
		jobs:      mocks.NewMockJobRepository(ctrl),
		reports:   mocks.NewMockReportRepository(ctrl),
		callbacks: mocks.NewMockCallbackRepository(ctrl),
		views:     mocks.NewMockCallbackViewRepository(ctrl),
		engine:    mocks.NewMockEngineClient(ctrl),
	}

	reportSvc := service.MustNewReportService(service.ReportServiceOptions{Reports: h.reports})
	jobSvc := service.MustNewJobService(service.JobServiceOptions{
		Jobs:        h.jobs,
		Reports:     h.reports,
		Engine:      h.engine,
		CallbackURL: "https://app.example.com/api/webhooks/engine",
	})
	callbackSvc := service.MustNewCallbackService(service.CallbackServiceOptions{
		Callbacks:     h.callbacks,
		Views:         h.views,
		Jobs:          h.jobs,
		Reports:       reportSvc,
		WebhookSecret: testWebhookSecret,
	})

	h.router = NewRouter(RouterServices{
		Jobs:      jobSvc,
		Reports:   reportSvc,
		Callbacks: callbackSvc,
	})
	return h
}
