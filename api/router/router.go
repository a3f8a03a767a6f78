package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"blog-api/api/handlers"
	"blog-api/api/middleware"
	_ "blog-api/docs"
	"blog-api/dto"
	"blog-api/services"
)

// HealthCheck 는 저장소 연결 상태를 확인한다. nil 이면 항상 ok.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Posts  *services.PostService
	Health HealthCheck
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.Recovery())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := deps.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, dto.HealthResponseDTO{Status: "degraded", Mongo: "down", Error: err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, dto.HealthResponseDTO{Status: "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	posts := r.Group("/posts")
	{
		posts.GET("", handlers.ListPostsHandler(deps.Posts))
		posts.POST("", handlers.CreatePostHandler(deps.Posts))
		posts.GET("/:id", handlers.GetPostHandler(deps.Posts))
		posts.PUT("/:id", handlers.UpdatePostHandler(deps.Posts))
		posts.DELETE("/:id", handlers.DeletePostHandler(deps.Posts))
	}

	return r
}

// CORS wraps h with rs/cors. 허용 origin 이 비어 있으면 h 를 그대로 반환한다.
func CORS(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{"Location", middleware.HeaderRequestID},
	}).Handler(h)
}
