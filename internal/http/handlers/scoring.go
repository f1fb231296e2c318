package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/evidly-backend/internal/http/response"
	"github.com/yungbote/evidly-backend/internal/services"
)

const codeInvalidBody = "invalid_body"

type ScoringHandler struct {
	scoring services.ComplianceScoringService
	catalog services.CatalogService
}

func NewScoringHandler(scoring services.ComplianceScoringService, catalog services.CatalogService) *ScoringHandler {
	return &ScoringHandler{scoring: scoring, catalog: catalog}
}

type calculateScoreRequest struct {
	LocationID string `json:"location_id"`
	SaveAudit  *bool  `json:"save_audit"`
}

// POST /api/compliance/score
func (h *ScoringHandler) CalculateScore(c *gin.Context) {
	var req calculateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, codeInvalidBody, err)
		return
	}
	saveAudit := true
	if req.SaveAudit != nil {
		saveAudit = *req.SaveAudit
	}
	h.calculate(c, req.LocationID, saveAudit)
}

// GET /api/locations/:id/compliance-score
func (h *ScoringHandler) GetLocationScore(c *gin.Context) {
	saveAudit, err := boolQuery(c, "save_audit", true)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_save_audit", err)
		return
	}
	h.calculate(c, c.Param("id"), saveAudit)
}

func (h *ScoringHandler) calculate(c *gin.Context, locationID string, saveAudit bool) {
	score, err := h.scoring.Calculate(c.Request.Context(), locationID, saveAudit)
	if err != nil {
		_ = c.Error(err)
		response.RespondAPIError(c, err, services.CodeScoringFailed)
		return
	}
	response.RespondOK(c, score)
}

// GET /api/locations/:id/score-snapshots
func (h *ScoringHandler) ListSnapshots(c *gin.Context) {
	limit := services.DefaultSnapshotHistoryLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	rows, err := h.scoring.Snapshots(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		_ = c.Error(err)
		response.RespondAPIError(c, err, "list_snapshots_failed")
		return
	}
	response.RespondOK(c, gin.H{"snapshots": rows})
}

// GET /api/violation-catalog
func (h *ScoringHandler) ListViolationCatalog(c *gin.Context) {
	items, err := h.catalog.Items(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.RespondAPIError(c, err, "catalog_unavailable")
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

func boolQuery(c *gin.Context, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}
