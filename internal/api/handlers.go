package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/debbielamxy/WanderTogether/internal/journey"
	"github.com/debbielamxy/WanderTogether/internal/match"
	"github.com/debbielamxy/WanderTogether/internal/profile"
	"github.com/debbielamxy/WanderTogether/internal/validate"
)

// maxRequestBody bounds request body sizes for the JSON endpoints.
const maxRequestBody = 1 << 20 // 1 MiB

// PoolSource yields the candidate pool for a ranking call. Both
// profile.Repository and profile.SnapshotCache satisfy it.
type PoolSource interface {
	List(ctx context.Context) ([]profile.Candidate, error)
}

// Handlers bundles the recommendation endpoints with their dependencies.
type Handlers struct {
	strategy match.Strategy
	weights  match.Weights
	ranker   *match.Ranker
	topK     int

	pool     PoolSource
	journeys journey.Repository
	logger   *slog.Logger
}

// HandlersConfig configures the API handlers.
type HandlersConfig struct {
	Strategy match.Strategy
	// Weights is the active weight configuration: the strategy's preset
	// weights, possibly calibrated.
	Weights  match.Weights
	TopK     int
	Metrics  *match.Metrics
	Pool     PoolSource
	Journeys journey.Repository
	Logger   *slog.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(cfg HandlersConfig) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		strategy: cfg.Strategy,
		weights:  cfg.Weights,
		ranker:   cfg.Strategy.Ranker(cfg.Metrics),
		topK:     cfg.TopK,
		pool:     cfg.Pool,
		journeys: cfg.Journeys,
		logger:   logger,
	}
}

// Routes registers all endpoints on the mux.
func (h *Handlers) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Info)
	mux.HandleFunc("/weights", h.Weights)
	mux.HandleFunc("/recommend", h.Recommend)
	mux.HandleFunc("/matches", h.SubmitMatches)
	mux.HandleFunc("/journeys", h.Journeys)
}

// Info handles GET / with basic service information.
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service":  "wandertogether",
		"strategy": h.strategy.Name,
	})
}

// weightsResponse is the payload of GET /weights.
type weightsResponse struct {
	Strategy     string        `json:"strategy"`
	Weights      match.Weights `json:"weights"`
	TopK         int           `json:"top_k"`
	TrustPolicy  string        `json:"trust_policy"`
	Demographics string        `json:"demographics"`
	BioMode      string        `json:"bio_mode"`
	Gated        bool          `json:"gated"`
	Presets      []string      `json:"presets"`
}

// Weights handles GET /weights: the active strategy, its effective
// weights, and the available presets.
func (h *Handlers) Weights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, weightsResponse{
		Strategy:     h.strategy.Name,
		Weights:      h.weights,
		TopK:         h.topK,
		TrustPolicy:  h.strategy.Policy.String(),
		Demographics: h.strategy.Demographics.String(),
		BioMode:      h.strategy.BioMode.String(),
		Gated:        h.strategy.Gate != nil,
		Presets:      match.PresetNames(),
	})
}

// recommendation is one entry of the POST /recommend shortlist.
type recommendation struct {
	ProfileID  int64   `json:"profile_id"`
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	FinalScore float64 `json:"final_score"`
	Trust      float64 `json:"trust"`
}

// recommendResponse is the payload of POST /recommend.
type recommendResponse struct {
	Strategy        string           `json:"strategy"`
	Recommendations []recommendation `json:"recommendations"`
}

// Recommend handles POST /recommend: a query profile in, the ordered
// shortlist out.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var query profile.Query
	if err := decodeJSON(r, &query); err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid query profile: "+err.Error())
		return
	}
	if err := validate.Query(&query); err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid query profile: "+err.Error())
		return
	}

	pool, err := h.pool.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load candidate pool", "error", err)
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load candidate pool")
		return
	}

	results, err := h.ranker.Rank(query, h.weights, pool, h.topK)
	if err != nil {
		if errors.Is(err, match.ErrZeroWeightSum) || errors.Is(err, match.ErrNegativeWeight) {
			h.logger.ErrorContext(r.Context(), "invalid weight configuration", "error", err)
			WriteError(w, r, http.StatusInternalServerError, ErrCodeBadConfig, "Ranking weights are misconfigured")
			return
		}
		h.logger.ErrorContext(r.Context(), "ranking failed", "error", err)
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Ranking failed")
		return
	}

	resp := recommendResponse{
		Strategy:        h.strategy.Name,
		Recommendations: make([]recommendation, 0, len(results)),
	}
	for _, res := range results {
		resp.Recommendations = append(resp.Recommendations, recommendation{
			ProfileID:  res.Candidate.ID,
			Name:       res.Candidate.Name,
			RawScore:   res.RawScore,
			FinalScore: res.FinalScore,
			Trust:      res.Candidate.Trust,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// submitMatchesRequest is the payload of POST /matches.
type submitMatchesRequest struct {
	Query        profile.Query       `json:"query"`
	SuggestedIDs []int64             `json:"suggested_ids"`
	Selections   []journey.Selection `json:"selections"`
}

// SubmitMatches handles POST /matches: the traveler's selections from a
// previously returned shortlist, persisted as a journey.
func (h *Handlers) SubmitMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var req submitMatchesRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid submission: "+err.Error())
		return
	}
	if err := validate.Query(&req.Query); err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid submission: "+err.Error())
		return
	}

	j := journey.Journey{
		Query:            req.Query,
		SuggestedIDs:     req.SuggestedIDs,
		Selections:       req.Selections,
		AlgorithmVersion: h.strategy.Name,
	}

	stored, err := h.journeys.Record(r.Context(), j)
	if err != nil {
		if errors.Is(err, journey.ErrNoSelections) ||
			errors.Is(err, journey.ErrTooManySelections) ||
			errors.Is(err, journey.ErrSelectionNotOffered) {
			WriteError(w, r, http.StatusBadRequest, ErrCodeSelectionInvalid, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to record journey", "error", err)
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to record selections")
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// Journeys handles GET /journeys: the audit listing, newest first.
// The limit query parameter caps the result count.
func (h *Handlers) Journeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	journeys, err := h.journeys.List(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list journeys", "error", err)
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list journeys")
		return
	}
	if journeys == nil {
		journeys = []*journey.Journey{}
	}
	writeJSON(w, http.StatusOK, journeys)
}

// decodeJSON decodes a bounded JSON request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parsePositiveInt parses a positive decimal integer.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
