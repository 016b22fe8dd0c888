package middleware

import (
	"net/http"

	"booking-api/dto"
	"booking-api/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChangeScope abre un change scope por request. Lo que quede pendiente al
// final se guarda si la respuesta fue exitosa y se descarta si no.
func ChangeScope(dc repositories.DataContext, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := repositories.WithChangeScope(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		pending := repositories.PendingChanges(ctx)
		if pending == 0 {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			log.Debug("discarding pending changes", zap.Int("pending", pending))
			return
		}
		if err := dc.SaveChanges(ctx); err != nil {
			log.Error("failed to save pending changes", zap.Int("pending", pending), zap.Error(err))
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:   "save_changes_error",
					Message: err.Error(),
				})
			}
		}
	}
}
