package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/api/trace"
	"blog-api/dto"
	"blog-api/internal/logger"
)

// Recovery 는 핸들러 panic 을 500 JSON 응답으로 바꾸고 구조화 로그를 남긴다.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.ErrorWithFields("panic recovered", logger.Fields{
			"path":       c.Request.URL.Path,
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"panic":      recovered,
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal_error"})
	})
}
