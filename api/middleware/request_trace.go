package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/api/trace"
	"blog-api/internal/logger"
)

const HeaderRequestID = "X-Request-Id"

const maxBodyLog = 1024

// RequestTrace는 모든 inbound HTTP 요청에 Request ID를 보장하고,
// 이를 컨텍스트/응답 헤더에 저장한 뒤 요청 완료 로그에 포함시킨다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		c.Request = req.WithContext(trace.WithRequestID(req.Context(), requestID))
		c.Writer.Header().Set(HeaderRequestID, requestID)

		var bodySnippet string
		if req.Body != nil && req.ContentLength != 0 &&
			(req.Method == http.MethodPost || req.Method == http.MethodPut) {
			// 로그에 필요한 앞부분만 읽고, 나머지는 원래 Body 에서 그대로 이어 읽게 한다.
			head, err := io.ReadAll(io.LimitReader(req.Body, maxBodyLog))
			if err == nil {
				bodySnippet = string(head)
			}
			c.Request.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(head), req.Body),
				Closer: req.Body,
			}
		}

		c.Next()

		fields := logger.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
