package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/evidly-backend/internal/platform/apierr"
)

func TestRespondAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"plain error falls back", errors.New("db down"), http.StatusInternalServerError, "scoring_failed"},
		{"wrapped api error", fmt.Errorf("resolve: %w", apierr.NotFound("jurisdiction_not_configured", errors.New("none"))), http.StatusNotFound, "jurisdiction_not_configured"},
		{"bad request", apierr.BadRequest("invalid_location_id", errors.New("not a uuid")), http.StatusBadRequest, "invalid_location_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Set("request_id", "req-1")

			RespondAPIError(c, tc.err, "scoring_failed")

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.Equal(t, "req-1", body.Error.RequestID)
			assert.NotEmpty(t, body.Error.Message)
			assert.Len(t, c.Errors, 1)
		})
	}
}
