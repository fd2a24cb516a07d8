package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"x-1","c":null}`), &v))
	assert.Equal(t, ID("12"), v.A)
	assert.Equal(t, ID("x-1"), v.B)
	assert.Equal(t, ID(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestPostPatchApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Post{ID: "1", Text: "old", CreatedAt: created}
	text := "new"

	got := PostPatch{Text: &text}.Apply(p, created.Add(time.Minute))
	assert.Equal(t, "new", got.Text)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, created.Add(time.Minute), *got.UpdatedAt)
	assert.False(t, p.Edited())

	got = PostPatch{}.Apply(p, created.Add(-time.Hour))
	assert.Equal(t, "old", got.Text)
	assert.Equal(t, created, *got.UpdatedAt)

	server := created.Add(time.Hour)
	got = PostPatch{Text: &text, UpdatedAt: &server}.Apply(p, created.Add(time.Minute))
	assert.Equal(t, server, *got.UpdatedAt)
}
