package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"blog-api/dto"
	"blog-api/internal/logger"
	"blog-api/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  List every post, newest first
// @Tags         posts
// @Produce      json
// @Success      200  {array}   dto.PostDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	}
}

// GetPostHandler godoc
// @Summary      Get post by id
// @Description  Get a single post by ObjectID
// @Tags         posts
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// CreatePostHandler godoc
// @Summary      Create post
// @Description  Create a post. The response author is "{firstName} {lastName}"
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePostRequest  true  "Post"
// @Success      201   {object}  dto.PostDTO
// @Header       201   {string}  Location  "/posts/{id}"
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /posts [post]
func CreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		post, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", "/posts/"+post.ID)
		c.JSON(http.StatusCreated, post)
	}
}

// UpdatePostHandler godoc
// @Summary      Update post
// @Description  Partially update title and/or content. Omitted fields are unchanged
// @Tags         posts
// @Accept       json
// @Param        id    path  string                 true  "ObjectID"
// @Param        body  body  dto.UpdatePostRequest  true  "Fields to change"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [put]
func UpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if err := svc.Update(c.Request.Context(), c.Param("id"), req); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeletePostHandler godoc
// @Summary      Delete post
// @Tags         posts
// @Param        id   path  string  true  "ObjectID"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func DeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// writeError 는 서비스/바인딩 에러를 상태 코드와 ErrorResponseDTO 로 변환한다.
func writeError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: validationMessage(verrs)})
	case errors.Is(err, services.ErrInvalidPostID),
		errors.Is(err, services.ErrIDMismatch),
		errors.Is(err, services.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: err.Error()})
	default:
		logger.ErrorWithFields("post request failed", logger.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal_error"})
	}
}

// writeBindError handles malformed or invalid request bodies. Always 400.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: validationMessage(verrs)})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body: " + err.Error()})
}

func validationMessage(verrs validator.ValidationErrors) string {
	pairs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		pairs = append(pairs, fe.Field()+":"+fe.Tag())
	}
	return "validation_failed: " + strings.Join(pairs, ", ")
}
