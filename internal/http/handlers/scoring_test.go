package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/evidly-backend/internal/domain"
	"github.com/yungbote/evidly-backend/internal/platform/apierr"
	"github.com/yungbote/evidly-backend/internal/scoring"
	"github.com/yungbote/evidly-backend/internal/services"
)

const locID = "6f1c2b9e-3a44-4f0e-9a57-1b2c3d4e5f60"

type fakeScoring struct {
	err       error
	gotID     string
	gotAudit  bool
	gotLimit  int
	snapshots []*types.ScoreSnapshot
}

func (f *fakeScoring) Calculate(_ context.Context, locationID string, saveAudit bool) (*scoring.OverallScore, error) {
	f.gotID, f.gotAudit = locationID, saveAudit
	if f.err != nil {
		return nil, f.err
	}
	return &scoring.OverallScore{
		LocationID:    locationID,
		OverallScore:  88,
		FoodSafety:    scoring.PillarScore{Score: 80, Ops: 60, Docs: 100, Weight: 0.6},
		FireSafety:    scoring.PillarScore{Score: 100, Ops: 100, Docs: 100, Weight: 0.4},
		Jurisdictions: []scoring.JurisdictionScore{},
		InputHash:     "abc",
		EngineVersion: scoring.EngineVersion,
		CalculatedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeScoring) Snapshots(_ context.Context, locationID string, limit int) ([]*types.ScoreSnapshot, error) {
	f.gotID, f.gotLimit = locationID, limit
	return f.snapshots, f.err
}

type fakeCatalog struct {
	items []scoring.CatalogItem
	err   error
}

func (f *fakeCatalog) Items(context.Context) ([]scoring.CatalogItem, error) { return f.items, f.err }
func (f *fakeCatalog) SeedDefaults(context.Context) (int64, error)          { return 0, nil }
func (f *fakeCatalog) Invalidate()                                          {}

func newScoringRouter(h *ScoringHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/compliance/score", h.CalculateScore)
	r.GET("/api/locations/:id/compliance-score", h.GetLocationScore)
	r.GET("/api/locations/:id/score-snapshots", h.ListSnapshots)
	r.GET("/api/violation-catalog", h.ListViolationCatalog)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCalculateScoreRequest(t *testing.T) {
	cases := []struct {
		name      string
		method    string
		path      string
		body      string
		wantAudit bool
	}{
		{"post defaults to audit", http.MethodPost, "/api/compliance/score", fmt.Sprintf(`{"location_id":%q}`, locID), true},
		{"post without audit", http.MethodPost, "/api/compliance/score", fmt.Sprintf(`{"location_id":%q,"save_audit":false}`, locID), false},
		{"get defaults to audit", http.MethodGet, "/api/locations/" + locID + "/compliance-score", "", true},
		{"get without audit", http.MethodGet, "/api/locations/" + locID + "/compliance-score?save_audit=false", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeScoring{}
			rec := serve(newScoringRouter(NewScoringHandler(svc, &fakeCatalog{})), tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, locID, svc.gotID)
			assert.Equal(t, tc.wantAudit, svc.gotAudit)

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, 88.0, got["overallScore"])
			assert.Equal(t, "abc", got["inputHash"])
			food := got["foodSafety"].(map[string]any)
			assert.Equal(t, 80.0, food["score"])
		})
	}
}

func TestCalculateScoreErrors(t *testing.T) {
	notConfigured := apierr.NotFound(services.CodeJurisdictionNotConfigured, services.ErrJurisdictionNotConfigured)
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"malformed body", `{"location_id":`, nil, http.StatusBadRequest, "invalid_body"},
		{"not configured", fmt.Sprintf(`{"location_id":%q}`, locID), notConfigured, http.StatusNotFound, services.CodeJurisdictionNotConfigured},
		{"unexpected", fmt.Sprintf(`{"location_id":%q}`, locID), errors.New("db down"), http.StatusInternalServerError, services.CodeScoringFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeScoring{err: tc.err}
			rec := serve(newScoringRouter(NewScoringHandler(svc, &fakeCatalog{})), http.MethodPost, "/api/compliance/score", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantErr, decodeError(t, rec).Error.Code)
		})
	}
}

func TestCalculateScoreEmptyBodyReachesValidation(t *testing.T) {
	svc := &fakeScoring{err: apierr.BadRequest(services.CodeMissingLocationID, services.ErrMissingLocationID)}
	rec := serve(newScoringRouter(NewScoringHandler(svc, &fakeCatalog{})), http.MethodPost, "/api/compliance/score", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.CodeMissingLocationID, decodeError(t, rec).Error.Code)
	assert.Equal(t, "", svc.gotID)
}

func TestGetLocationScoreRejectsBadFlag(t *testing.T) {
	svc := &fakeScoring{}
	rec := serve(newScoringRouter(NewScoringHandler(svc, &fakeCatalog{})), http.MethodGet, "/api/locations/"+locID+"/compliance-score?save_audit=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "", svc.gotID)
}

func TestListSnapshots(t *testing.T) {
	svc := &fakeScoring{snapshots: []*types.ScoreSnapshot{{SnapshotDate: "2026-03-14", OverallScore: 91}}}
	r := newScoringRouter(NewScoringHandler(svc, &fakeCatalog{}))

	rec := serve(r, http.MethodGet, "/api/locations/"+locID+"/score-snapshots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.DefaultSnapshotHistoryLimit, svc.gotLimit)
	var body struct {
		Snapshots []types.ScoreSnapshot `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Snapshots, 1)
	assert.Equal(t, "2026-03-14", body.Snapshots[0].SnapshotDate)

	rec = serve(r, http.MethodGet, "/api/locations/"+locID+"/score-snapshots?limit=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.gotLimit)

	rec = serve(r, http.MethodGet, "/api/locations/"+locID+"/score-snapshots?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_limit", decodeError(t, rec).Error.Code)
}

func TestListViolationCatalog(t *testing.T) {
	cat := &fakeCatalog{items: []scoring.CatalogItem{{Code: "T1", Pillar: scoring.PillarFoodSafety, Points: 4}}}
	r := newScoringRouter(NewScoringHandler(&fakeScoring{}, cat))

	rec := serve(r, http.MethodGet, "/api/violation-catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []scoring.CatalogItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "T1", body.Items[0].Code)

	cat.err = errors.New("boom")
	rec = serve(r, http.MethodGet, "/api/violation-catalog", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "catalog_unavailable", decodeError(t, rec).Error.Code)
}
