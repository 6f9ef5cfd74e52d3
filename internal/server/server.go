package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
	"github.com/hammamikhairi/souschef/internal/engine"
	"github.com/hammamikhairi/souschef/internal/extract"
	"github.com/hammamikhairi/souschef/internal/metrics"
)

// HealthChecker reports whether the language backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server wires the HTTP surface to the engine and the extraction
// pipeline.
type Server struct {
	engine    *engine.Engine
	extractor *extract.Extractor
	source    domain.TranscriptSource
	catalog   domain.RecipeCatalog
	health    HealthChecker
	model     string
	log       zerolog.Logger
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithTranscriptSource enables the ingest endpoint.
func WithTranscriptSource(src domain.TranscriptSource) Option {
	return func(s *Server) { s.source = src }
}

// WithHealthChecker adds backend reachability to the health endpoint.
func WithHealthChecker(h HealthChecker) Option {
	return func(s *Server) { s.health = h }
}

// WithMetrics wires request instrumentation and the metrics endpoint.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithModel sets the default extraction model.
func WithModel(model string) Option {
	return func(s *Server) { s.model = model }
}

func New(eng *engine.Engine, ex *extract.Extractor, catalog domain.RecipeCatalog, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		engine:    eng,
		extractor: ex,
		catalog:   catalog,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("POST /session/start", s.handleStartSession)
	mux.HandleFunc("POST /session/query", s.handleQuery)
	mux.HandleFunc("POST /session/step", s.handleStep)
	mux.HandleFunc("POST /session/timer", s.handleTimer)
	mux.HandleFunc("GET /session/{id}", s.handleSessionState)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /recipes", s.handleListRecipes)
	mux.HandleFunc("POST /recipes", s.handleCreateRecipe)
	mux.HandleFunc("GET /recipes/{id}", s.handleGetRecipe)

	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return s.instrument(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Backend: "unknown"}
	if s.health != nil {
		if err := s.health.Health(r.Context()); err != nil {
			resp.Backend = "unavailable"
		} else {
			resp.Backend = "ok"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		writeError(w, http.StatusNotImplemented, "transcript ingestion is not configured")
		return
	}
	var req ingestRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	transcript, err := s.source.Fetch(r.Context(), req.URL)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	recipe, err := s.extractor.Extract(r.Context(), transcript.Text, s.extractModel(req.Model))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := s.catalog.SaveRecipe(r.Context(), recipe.Title, transcript.Title, *recipe)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingestResponse{RecipeID: id, VideoID: transcript.ID, Recipe: *recipe})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Transcript == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	recipe, err := s.extractor.Extract(r.Context(), req.Transcript, s.extractModel(req.Model))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{Recipe: *recipe})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var recipe domain.Recipe
	switch {
	case req.Recipe != nil:
		recipe = *req.Recipe
	case req.RecipeID != nil:
		saved, err := s.catalog.GetRecipe(r.Context(), *req.RecipeID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		recipe = saved.Recipe
	default:
		writeError(w, http.StatusBadRequest, "recipe or recipe_id is required")
		return
	}

	snap, err := s.engine.StartSession(r.Context(), recipe)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "session_id and query are required")
		return
	}

	res, err := s.engine.Query(r.Context(), req.SessionID, req.Query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "session_id and action are required")
		return
	}

	res, err := s.engine.Navigate(r.Context(), req.SessionID, req.Action)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID == "" || req.Duration == "" {
		writeError(w, http.StatusBadRequest, "session_id and duration are required")
		return
	}
	if req.Label == "" {
		req.Label = "timer"
	}

	res, err := s.engine.AddTimer(r.Context(), req.SessionID, req.Label, req.Duration)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.TimersStarted.Inc()
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.State(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.ListSessions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: ids, Count: len(ids)})
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.catalog.ListRecipes(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if recipes == nil {
		recipes = []domain.SavedRecipe{}
	}
	writeJSON(w, http.StatusOK, recipeListResponse{Recipes: recipes})
}

// handleCreateRecipe saves a caller-supplied recipe to the catalog,
// bypassing extraction. Seeding and manual entry come in this way.
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req createRecipeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Recipe.Steps) == 0 {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyRecipe.Error())
		return
	}
	title := req.Title
	if title == "" {
		title = req.Recipe.Title
	}

	id, err := s.catalog.SaveRecipe(r.Context(), title, req.Description, req.Recipe)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createRecipeResponse{RecipeID: id})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}
	saved, err := s.catalog.GetRecipe(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) extractModel(override string) string {
	if override != "" {
		return override
	}
	return s.model
}
