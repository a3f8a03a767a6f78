package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// Author 는 포스트 작성자의 저장 형태다.
// API 응답에서는 FullName 으로 합쳐진 문자열만 노출된다.
type Author struct {
	FirstName string `bson:"firstName" json:"firstName" validate:"required,max=100"`
	LastName  string `bson:"lastName" json:"lastName" validate:"required,max=100"`
}

// FullName returns "{firstName} {lastName}".
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Post represents a blog post document
// Collection: posts
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author     Author             `bson:"author" json:"author"`
	Title      string             `bson:"title" json:"title" validate:"required,max=200"`
	Content    string             `bson:"content" json:"content" validate:"required"`
	Created    time.Time          `bson:"created" json:"created"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
	SourceLink string             `bson:"source_link,omitempty" json:"source_link,omitempty" validate:"omitempty,url"`
}

// Validate checks the author, title and content rules.
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// SplitAuthorName 은 "Jane van Doe" 같은 표시용 이름을 Author 로 나눈다.
// 첫 토큰이 firstName, 나머지가 lastName 이 된다. 한 단어뿐이면 fallback 을 lastName 으로 쓴다.
func SplitAuthorName(name, fallback string) Author {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return SplitAuthorName(fallback, "Anonymous")
	case 1:
		if fallback == "" {
			fallback = "Anonymous"
		}
		return Author{FirstName: fields[0], LastName: fallback}
	default:
		return Author{FirstName: fields[0], LastName: strings.Join(fields[1:], " ")}
	}
}
