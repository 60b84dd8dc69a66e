package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bizready/internal/api"
	"bizready/internal/domain"
	"bizready/internal/ports"
	"bizready/internal/services/assessment"
	"bizready/internal/workers/assessrunner"
)

const defaultInlineTimeout = 30 * time.Second

// Server exposes the assessment service over HTTP.
type Server struct {
	assessor  ports.Assessor
	jobs      ports.JobRepository
	processor assessrunner.Processor
	metrics   http.Handler
	logger    *slog.Logger
	timeout   time.Duration
}

var _ api.StrictServerInterface = (*Server)(nil)

type Option func(*Server)

// WithMetrics serves h on GET /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithInlineTimeout bounds synchronous assessments.
func WithInlineTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

func New(assessor ports.Assessor, jobs ports.JobRepository, processor assessrunner.Processor, opts ...Option) *Server {
	s := &Server{assessor: assessor, jobs: jobs, processor: processor, logger: slog.Default(), timeout: defaultInlineTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, s.logRequests)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	handler := api.NewStrictHandlerWithOptions(s, nil, api.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  badRequest,
		ResponseErrorHandlerFunc: s.responseError,
	})
	api.HandlerWithOptions(handler, api.ChiServerOptions{BaseRouter: r, ErrorHandlerFunc: badRequest})
	return r
}

func (s *Server) GetHealthz(_ context.Context, _ api.GetHealthzRequestObject) (api.GetHealthzResponseObject, error) {
	return api.GetHealthz200JSONResponse{Status: "ok"}, nil
}

func (s *Server) PostAssessments(ctx context.Context, request api.PostAssessmentsRequestObject) (api.PostAssessmentsResponseObject, error) {
	if request.Body == nil {
		return api.PostAssessmentsdefaultJSONResponse{StatusCode: http.StatusBadRequest, Body: api.Error{Error: "missing body"}}, nil
	}
	req := ports.AssessmentRequest{BusinessTypeID: request.Body.BusinessTypeId}
	if request.Body.LocationId != nil {
		req.LocationID = *request.Body.LocationId
	}
	if request.Body.Characteristics != nil {
		req.Characteristics = *request.Body.Characteristics
	}
	if request.Body.AsOf != nil {
		req.AsOf = request.Body.AsOf.Time
	}

	if request.Params.Async != nil && *request.Params.Async {
		id, err := s.assessor.Enqueue(ctx, req)
		if err != nil {
			code, body := s.failure(err)
			return api.PostAssessmentsdefaultJSONResponse{StatusCode: code, Body: body}, nil
		}
		return api.PostAssessments202JSONResponse{AssessmentId: id}, nil
	}

	plan, err := s.runInline(ctx, req)
	if err != nil {
		code, body := s.failure(err)
		return api.PostAssessmentsdefaultJSONResponse{StatusCode: code, Body: body}, nil
	}
	return api.PostAssessments201JSONResponse{
		Body:    plan,
		Headers: api.PostAssessments201ResponseHeaders{Location: "/assessments/" + plan.ID},
	}, nil
}

// runInline creates a running job and processes it on the request goroutine.
func (s *Server) runInline(ctx context.Context, req ports.AssessmentRequest) (domain.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	job, err := s.assessor.Start(ctx, req)
	if err != nil {
		return domain.Plan{}, err
	}
	if err := assessrunner.ProcessInline(ctx, s.jobs, s.processor, job); err != nil {
		return domain.Plan{}, err
	}
	st, err := s.assessor.Get(ctx, job.AssessmentID)
	if err != nil {
		return domain.Plan{}, err
	}
	var plan domain.Plan
	if err := json.Unmarshal(st.Plan, &plan); err != nil {
		return domain.Plan{}, fmt.Errorf("decode plan %s: %w", job.AssessmentID, err)
	}
	return plan, nil
}

func (s *Server) GetAssessmentsId(ctx context.Context, request api.GetAssessmentsIdRequestObject) (api.GetAssessmentsIdResponseObject, error) {
	st, err := s.assessor.Get(ctx, request.Id)
	if err != nil {
		code, body := s.failure(err)
		return api.GetAssessmentsIddefaultJSONResponse{StatusCode: code, Body: body}, nil
	}
	resp := api.GetAssessmentsId200JSONResponse{Id: st.ID, Status: api.AssessmentStatusStatus(st.Status)}
	if st.Error != "" {
		resp.Error = &st.Error
	}
	if resp.Status == api.Completed && len(st.Plan) > 0 {
		var plan domain.Plan
		if err := json.Unmarshal(st.Plan, &plan); err != nil {
			return nil, fmt.Errorf("decode plan %s: %w", st.ID, err)
		}
		resp.Plan = &plan
	}
	return resp, nil
}

func (s *Server) PostRecommendations(ctx context.Context, request api.PostRecommendationsRequestObject) (api.PostRecommendationsResponseObject, error) {
	if request.Body == nil {
		return api.PostRecommendationsdefaultJSONResponse{StatusCode: http.StatusBadRequest, Body: api.Error{Error: "missing body"}}, nil
	}
	var chars domain.Characteristics
	if request.Body.Characteristics != nil {
		chars = *request.Body.Characteristics
	}
	recs, err := s.assessor.Recommend(ctx, request.Body.BusinessTypeId, request.Body.ActiveHazards, chars)
	if err != nil {
		code, body := s.failure(err)
		return api.PostRecommendationsdefaultJSONResponse{StatusCode: code, Body: body}, nil
	}
	return api.PostRecommendations200JSONResponse{Recommendations: recs}, nil
}

func (s *Server) failure(err error) (int, api.Error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.Int("status", code), slog.String("error", err.Error()))
	}
	return code, api.Error{Error: err.Error()}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assessment.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidCharacteristic):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrEmptyStrategyCatalog):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) responseError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("response failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func badRequest(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.Error{Error: msg})
}
