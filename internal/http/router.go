package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"talentflow/internal/http/handlers"
	"talentflow/internal/http/metrics"
	httpmw "talentflow/internal/http/middleware"
)

type RouterDependencies struct {
	RequisitionHandler *handlers.RequisitionHandler
	VacancyHandler     *handlers.VacancyHandler
	CandidateHandler   *handlers.CandidateHandler
	EvaluationHandler  *handlers.EvaluationHandler
	InterviewHandler   *handlers.InterviewHandler
	SelectionHandler   *handlers.SelectionHandler
	MetricsHandler     *handlers.MetricsHandler
	Metrics            *metrics.Collector
	Logger             *logrus.Logger
	RateLimiter        httpmw.Limiter
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const (
	maxBodyBytes       = 1 << 20
	rateLimitPerMinute = 120
)

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Metrics(r.deps.Metrics),
		httpmw.RateLimit(r.deps.RateLimiter, httpmw.ClientIP, rateLimitPerMinute, time.Minute),
		httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return

		case req.Method == http.MethodPost && path == "/requisitions":
			r.deps.RequisitionHandler.Create(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/requisitions/") && strings.HasSuffix(path, "/review"):
			r.deps.RequisitionHandler.Review(w, req)
			return
		case req.Method == http.MethodGet && path == "/requisitions":
			r.deps.RequisitionHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/requisitions/"):
			r.deps.RequisitionHandler.Get(w, req)
			return

		case req.Method == http.MethodPost && path == "/vacancies/publish":
			r.deps.VacancyHandler.Publish(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/vacancies/") && strings.HasSuffix(path, "/close"):
			r.deps.VacancyHandler.Close(w, req)
			return
		case req.Method == http.MethodGet && path == "/vacancies":
			r.deps.VacancyHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/vacancies/"):
			r.deps.VacancyHandler.Get(w, req)
			return

		case req.Method == http.MethodPost && path == "/candidates":
			r.deps.CandidateHandler.Register(w, req)
			return
		case req.Method == http.MethodPatch && strings.HasPrefix(path, "/candidates/") && strings.HasSuffix(path, "/status"):
			r.deps.CandidateHandler.UpdateStatus(w, req)
			return
		case req.Method == http.MethodGet && path == "/candidates":
			r.deps.CandidateHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/candidates/"):
			r.deps.CandidateHandler.Get(w, req)
			return

		case req.Method == http.MethodPost && path == "/evaluations":
			r.deps.EvaluationHandler.Assign(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/evaluations/") && strings.HasSuffix(path, "/results"):
			r.deps.EvaluationHandler.SubmitResult(w, req)
			return
		case req.Method == http.MethodGet && path == "/evaluations":
			r.deps.EvaluationHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/evaluations/"):
			r.deps.EvaluationHandler.Get(w, req)
			return

		case req.Method == http.MethodPost && path == "/interviews":
			r.deps.InterviewHandler.Schedule(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/start"):
			r.deps.InterviewHandler.Start(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/feedback"):
			r.deps.InterviewHandler.SubmitFeedback(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/cancel"):
			r.deps.InterviewHandler.Cancel(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/interviews/") && strings.HasSuffix(path, "/reschedule"):
			r.deps.InterviewHandler.Reschedule(w, req)
			return
		case req.Method == http.MethodGet && path == "/interviews":
			r.deps.InterviewHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/interviews/"):
			r.deps.InterviewHandler.Get(w, req)
			return

		case req.Method == http.MethodPost && path == "/selections":
			r.deps.SelectionHandler.Create(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/selections/") && strings.HasSuffix(path, "/report"):
			r.deps.SelectionHandler.GenerateReport(w, req)
			return
		case req.Method == http.MethodPost && strings.HasPrefix(path, "/selections/") && strings.HasSuffix(path, "/decision"):
			r.deps.SelectionHandler.Decide(w, req)
			return
		case req.Method == http.MethodGet && path == "/selections":
			r.deps.SelectionHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/selections/"):
			r.deps.SelectionHandler.Get(w, req)
			return
		}

		http.NotFound(w, req)
	})
}
