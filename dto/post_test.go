package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/models"
)

func TestNewPostDTOFlattensAuthor(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d := NewPostDTO(models.Post{
		ID:      id,
		Author:  models.Author{FirstName: "Jane", LastName: "Doe"},
		Title:   "T",
		Content: "C",
		Created: created,
	})

	assert.Equal(t, id.Hex(), d.ID)
	assert.Equal(t, "Jane Doe", d.Author)
	assert.Equal(t, "T", d.Title)
	assert.Equal(t, "C", d.Content)
	assert.Equal(t, created, d.Created)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, k := range []string{"id", "title", "content", "author", "created"} {
		assert.Contains(t, keys, k)
	}
}

func TestCreatePostRequestToModel(t *testing.T) {
	var req CreatePostRequest
	require.NoError(t, json.Unmarshal([]byte(`{"author":{"firstName":"Jane","lastName":"Doe"},"title":"T","content":"C"}`), &req))

	p := req.ToModel()
	assert.True(t, p.ID.IsZero())
	assert.True(t, p.Created.IsZero())
	assert.Equal(t, models.Author{FirstName: "Jane", LastName: "Doe"}, p.Author)
	assert.Equal(t, "T", p.Title)
	assert.Equal(t, "C", p.Content)
}
