package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/evidly-backend/internal/platform/apierr"
)

// RespondAPIError maps err through apierr and writes the error envelope.
// Errors without an *apierr.Error in their chain become 500 fallbackCode.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.From(err, fallbackCode)
	if ae == nil {
		RespondError(c, 500, fallbackCode, nil)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}
