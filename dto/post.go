package dto

import (
	"time"

	"blog-api/models"
)

// PostDTO 는 API 로 노출되는 포스트 표현이다.
// ID 는 hex 문자열, author 는 "{firstName} {lastName}" 로 합친 문자열이다.
type PostDTO struct {
	ID      string    `json:"id" example:"65f1c0ffee0000000000abcd"`
	Title   string    `json:"title" example:"Hello"`
	Content string    `json:"content" example:"First post"`
	Author  string    `json:"author" example:"Jane Doe"`
	Created time.Time `json:"created"`
}

// NewPostDTO constructs PostDTO from models.Post
func NewPostDTO(p models.Post) PostDTO {
	return PostDTO{
		ID:      p.ID.Hex(),
		Title:   p.Title,
		Content: p.Content,
		Author:  p.Author.FullName(),
		Created: p.Created,
	}
}

// AuthorInput 은 생성 요청의 작성자 필드다.
type AuthorInput struct {
	FirstName string `json:"firstName" binding:"required,max=100" example:"Jane"`
	LastName  string `json:"lastName" binding:"required,max=100" example:"Doe"`
}

// CreatePostRequest is the POST /posts body.
type CreatePostRequest struct {
	Author  AuthorInput `json:"author"`
	Title   string      `json:"title" binding:"required,max=200" example:"Hello"`
	Content string      `json:"content" binding:"required" example:"First post"`
}

// ToModel 은 요청을 저장 모델로 바꾼다. ID 와 created 는 저장소가 채운다.
func (r CreatePostRequest) ToModel() models.Post {
	return models.Post{
		Author: models.Author{
			FirstName: r.Author.FirstName,
			LastName:  r.Author.LastName,
		},
		Title:   r.Title,
		Content: r.Content,
	}
}

// UpdatePostRequest is the PUT /posts/{id} body. 생략된 필드는 바뀌지 않는다.
// id 는 선택이며, 있으면 경로의 id 와 같아야 한다.
type UpdatePostRequest struct {
	ID      *string `json:"id,omitempty" example:"65f1c0ffee0000000000abcd"`
	Title   *string `json:"title,omitempty" binding:"omitempty,max=200" example:"New title"`
	Content *string `json:"content,omitempty" example:"New content"`
}
