package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent(PostCreated, "api")

	_, err := uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.Equal(t, PostCreated, e.Type)
	assert.Equal(t, "api", e.Source)
	assert.False(t, e.Timestamp.IsZero())
}

func TestDeserializeEvent(t *testing.T) {
	data, err := json.Marshal(PostDeletedEvent{
		BaseEvent: NewBaseEvent(PostDeleted, "api"),
		PostID:    "65f1c0ffee0000000000abcd",
	})
	require.NoError(t, err)

	v, err := DeserializeEvent(PostDeleted, data)
	require.NoError(t, err)
	deleted, ok := v.(*PostDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, "65f1c0ffee0000000000abcd", deleted.PostID)
	assert.Equal(t, PostDeleted, deleted.Type)

	_, err = DeserializeEvent("post.unknown", data)
	assert.Error(t, err)
}
