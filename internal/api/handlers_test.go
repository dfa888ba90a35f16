package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debbielamxy/WanderTogether/internal/journey"
	"github.com/debbielamxy/WanderTogether/internal/match"
	"github.com/debbielamxy/WanderTogether/internal/profile"
)

func seedPool(t *testing.T, repo *profile.InMemoryRepository, candidates ...profile.Candidate) {
	t.Helper()
	for i := range candidates {
		if err := repo.Upsert(context.Background(), &candidates[i]); err != nil {
			t.Fatalf("seed candidate %d: %v", candidates[i].ID, err)
		}
	}
}

func newTestHandlers(t *testing.T, candidates ...profile.Candidate) (*Handlers, *journey.InMemoryRepository) {
	t.Helper()

	repo := profile.NewInMemoryRepository()
	seedPool(t, repo, candidates...)
	journeys := journey.NewInMemoryRepository()

	s := match.DefaultStrategy()
	h := NewHandlers(HandlersConfig{
		Strategy: s,
		Weights:  s.Weights,
		TopK:     6,
		Pool:     repo,
		Journeys: journeys,
	})
	return h, journeys
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestInfo(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["service"] != "wandertogether" {
		t.Errorf("service = %q", resp["service"])
	}
}

func TestInfoUnknownPath(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestWeights(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Weights(rec, httptest.NewRequest(http.MethodGet, "/weights", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Strategy string   `json:"strategy"`
		TopK     int      `json:"top_k"`
		Presets  []string `json:"presets"`
		Gated    bool     `json:"gated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Strategy != match.StrategySafetyHybrid {
		t.Errorf("strategy = %q", resp.Strategy)
	}
	if resp.TopK != 6 {
		t.Errorf("top_k = %d, want 6", resp.TopK)
	}
	if len(resp.Presets) != 5 {
		t.Errorf("presets = %v, want 5 names", resp.Presets)
	}
	if !resp.Gated {
		t.Error("default strategy should be gated")
	}
}

func TestWeightsMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandlers(t)
	rec := httptest.NewRecorder()
	h.Weights(rec, httptest.NewRequest(http.MethodPost, "/weights", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRecommend(t *testing.T) {
	h, _ := newTestHandlers(t,
		profile.Candidate{ID: 1, Name: "Maya", Trust: 0.9, Pace: 2, Budget: 2, Style: "budget_backpacker"},
		profile.Candidate{ID: 2, Name: "Priya", Trust: 0.95, Pace: 1, Budget: 3, Style: "luxury_traveler"},
		profile.Candidate{ID: 3, Name: "Lena", Trust: 0.2, Pace: 2, Budget: 2, Style: "budget_backpacker"},
	)

	rec := postJSON(t, h.Recommend, "/recommend", profile.Query{
		Name: "Asha", Pace: 2, Budget: 2, Style: "budget_backpacker",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Strategy        string `json:"strategy"`
		Recommendations []struct {
			ProfileID  int64   `json:"profile_id"`
			FinalScore float64 `json:"final_score"`
			RawScore   float64 `json:"raw_score"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Candidate 3 is below the trust gate and must not appear.
	for _, r := range resp.Recommendations {
		if r.ProfileID == 3 {
			t.Error("gated-out candidate leaked into recommendations")
		}
	}
	if len(resp.Recommendations) != 2 {
		t.Fatalf("len(recommendations) = %d, want 2", len(resp.Recommendations))
	}
	// Descending by final score; the best logistics match first.
	if resp.Recommendations[0].ProfileID != 1 {
		t.Errorf("first recommendation = %d, want 1", resp.Recommendations[0].ProfileID)
	}
	if resp.Recommendations[0].FinalScore < resp.Recommendations[1].FinalScore {
		t.Error("recommendations not sorted descending")
	}
	for _, r := range resp.Recommendations {
		if r.FinalScore < 0 || r.FinalScore > 1 || math.IsNaN(r.FinalScore) {
			t.Errorf("final score %f out of bounds", r.FinalScore)
		}
	}
}

func TestRecommendInvalidBody(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/recommend", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeValidation)
	}
}

func TestRecommendUnknownField(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/recommend",
		bytes.NewReader([]byte(`{"name":"Asha","charisma":9}`)))
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown field", rec.Code)
	}
}

func TestRecommendOversizedBio(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Recommend, "/recommend", profile.Query{
		Name: "Asha",
		Bio:  strings.Repeat("a", 2001),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeValidation)
	}
}

func TestRecommendEmptyPool(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Recommend, "/recommend", profile.Query{Name: "Asha"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp recommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("len = %d, want empty shortlist", len(resp.Recommendations))
	}
}

type failingPool struct{}

func (failingPool) List(ctx context.Context) ([]profile.Candidate, error) {
	return nil, errors.New("connection refused")
}

func TestRecommendPoolFailure(t *testing.T) {
	s := match.DefaultStrategy()
	h := NewHandlers(HandlersConfig{
		Strategy: s,
		Weights:  s.Weights,
		TopK:     6,
		Pool:     failingPool{},
		Journeys: journey.NewInMemoryRepository(),
	})

	rec := postJSON(t, h.Recommend, "/recommend", profile.Query{Name: "Asha"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRecommendBadWeightConfig(t *testing.T) {
	s := match.DefaultStrategy()
	h := NewHandlers(HandlersConfig{
		Strategy: s,
		Weights:  match.Weights{}, // zero sum
		TopK:     6,
		Pool:     profile.NewInMemoryRepository(),
		Journeys: journey.NewInMemoryRepository(),
	})

	rec := postJSON(t, h.Recommend, "/recommend", profile.Query{Name: "Asha"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp.Error.Code != ErrCodeBadConfig {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeBadConfig)
	}
}

func TestSubmitMatches(t *testing.T) {
	h, journeys := newTestHandlers(t)

	rec := postJSON(t, h.SubmitMatches, "/matches", submitMatchesRequest{
		Query:        profile.Query{Name: "Asha"},
		SuggestedIDs: []int64{1, 2, 3},
		Selections: []journey.Selection{
			{ProfileID: 2, RawScore: 0.9, FinalScore: 0.85, Trust: 0.9},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stored journey.Journey
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stored.ID == "" {
		t.Error("journey id not assigned")
	}
	if stored.AlgorithmVersion != match.StrategySafetyHybrid {
		t.Errorf("algorithm version = %q", stored.AlgorithmVersion)
	}

	listed, err := journeys.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("len(journeys) = %d, want 1", len(listed))
	}
}

func TestSubmitMatchesInvalidSelection(t *testing.T) {
	h, _ := newTestHandlers(t)

	tests := []struct {
		name string
		req  submitMatchesRequest
	}{
		{
			name: "no selections",
			req: submitMatchesRequest{
				SuggestedIDs: []int64{1},
			},
		},
		{
			name: "selection not offered",
			req: submitMatchesRequest{
				SuggestedIDs: []int64{1},
				Selections:   []journey.Selection{{ProfileID: 99}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.SubmitMatches, "/matches", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if resp.Error.Code != ErrCodeSelectionInvalid {
				t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeSelectionInvalid)
			}
		})
	}
}

func TestJourneysListing(t *testing.T) {
	h, journeys := newTestHandlers(t)

	for i := 0; i < 3; i++ {
		_, err := journeys.Record(context.Background(), journey.Journey{
			Query:        profile.Query{Name: "Asha"},
			SuggestedIDs: []int64{1},
			Selections:   []journey.Selection{{ProfileID: 1}},
		})
		if err != nil {
			t.Fatalf("seed journey: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.Journeys(rec, httptest.NewRequest(http.MethodGet, "/journeys?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var listed []journey.Journey
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("len = %d, want limit 2", len(listed))
	}
}

func TestJourneysInvalidLimit(t *testing.T) {
	h, _ := newTestHandlers(t)
	rec := httptest.NewRecorder()
	h.Journeys(rec, httptest.NewRequest(http.MethodGet, "/journeys?limit=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestJourneysEmptyListIsJSONArray(t *testing.T) {
	h, _ := newTestHandlers(t)
	rec := httptest.NewRecorder()
	h.Journeys(rec, httptest.NewRequest(http.MethodGet, "/journeys", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}
