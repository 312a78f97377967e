package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/page"
	healthuc "github.com/kailas-cloud/restodex/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/restodex/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/restodex/internal/usecase/search"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchResponse is one page of search results with pagination metadata.
type SearchResponse struct {
	Query      string           `json:"query"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Items      []domrest.Record `json:"items"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server serves the restaurant lookup HTTP API.
type Server struct {
	search      *searchuc.Service
	restaurants *restaurantuc.Service
	health      *healthuc.Service
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	restaurants *restaurantuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:      search,
		restaurants: restaurants,
		health:      health,
		logger:      logger,
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.SearchRestaurants)
	r.Get("/search", s.SearchRestaurants)
	r.Get("/restaurant/{id}", s.GetRestaurant)

	r.Route("/web-api", func(r chi.Router) {
		r.Get("/", s.SearchRestaurantsRaw)
		r.Get("/restaurant/{id}", s.GetRestaurant)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchRestaurants handles GET /search and GET /.
func (s *Server) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	term, pageNum := searchParams(r)
	res := s.search.Search(r.Context(), term, pageNum)

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:      term,
		Page:       pageNum,
		TotalPages: res.TotalPages,
		Items:      res.Records,
	})
}

// SearchRestaurantsRaw handles GET /web-api: the bare record array.
func (s *Server) SearchRestaurantsRaw(w http.ResponseWriter, r *http.Request) {
	term, pageNum := searchParams(r)
	res := s.search.Search(r.Context(), term, pageNum)
	writeJSON(w, http.StatusOK, res.Records)
}

// GetRestaurant handles GET /restaurant/{id} and GET /web-api/restaurant/{id}.
func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.restaurants.Get(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Restaurant not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchParams(r *http.Request) (string, int) {
	q := r.URL.Query()
	return q.Get("query"), page.Parse(q.Get("page"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
