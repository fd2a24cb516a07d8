package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandaloves/social-posts-app/internal/model"
)

func readyState(posts ...model.Post) PageState {
	return PageState{
		Items:      posts,
		TotalPages: 1,
		TotalItems: len(posts),
		PageSize:   10,
	}
}

func TestApplyCreate(t *testing.T) {
	s := readyState(post("P1", 1), post("P2", 2))

	got := ApplyCreate(s, post("P3", 0))

	assert.Equal(t, []model.ID{"P3", "P1", "P2"}, ids(got))
	assert.Equal(t, 3, got.TotalItems)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 0, got.CurrentPageIndex)

	assert.Equal(t, []model.ID{"P1", "P2"}, ids(s), "input is not modified")
}

func TestApplyCreateKnownID(t *testing.T) {
	s := readyState(post("P1", 1), post("P2", 2))
	replacement := post("P2", 2)
	replacement.Text = "server copy"

	got := ApplyCreate(s, replacement)

	assert.Equal(t, []model.ID{"P1", "P2"}, ids(got))
	assert.Equal(t, 2, got.TotalItems)
	assert.Equal(t, "server copy", got.Items[1].Text)
	assert.Equal(t, "post P2", s.Items[1].Text)
}

func TestCreateThenDeleteIsIdentity(t *testing.T) {
	states := []PageState{
		readyState(post("P1", 1)),
		readyState(post("P1", 1), post("P2", 2), post("P3", 3)),
		{
			Items:            []model.Post{post("P1", 1), post("P2", 2)},
			CurrentPageIndex: 1,
			TotalPages:       4,
			TotalItems:       37,
			PageSize:         2,
		},
	}

	for i, s := range states {
		for n := 0; n < 3; n++ {
			id := fmt.Sprintf("new-%d", n)
			t.Run(fmt.Sprintf("state %d %s", i, id), func(t *testing.T) {
				got := ApplyDelete(ApplyCreate(s, post(id, 0)), model.ID(id))
				assert.Equal(t, s, got)
			})
		}
	}
}

func TestApplyUpdate(t *testing.T) {
	s := readyState(post("P1", 1), post("P2", 2))
	now := base.Add(time.Hour)
	text := "edited"

	t.Run("loaded post", func(t *testing.T) {
		got := ApplyUpdate(s, "P2", model.PostPatch{Text: &text}, now)

		require.Len(t, got.Items, 2)
		assert.Equal(t, "edited", got.Items[1].Text)
		require.NotNil(t, got.Items[1].UpdatedAt)
		assert.Equal(t, now, *got.Items[1].UpdatedAt)
		assert.Equal(t, s.TotalItems, got.TotalItems)

		assert.Equal(t, "post P2", s.Items[1].Text)
		assert.Nil(t, s.Items[1].UpdatedAt)
	})

	t.Run("not loaded", func(t *testing.T) {
		got := ApplyUpdate(s, "P9", model.PostPatch{Text: &text}, now)
		assert.Equal(t, s, got)
	})

	t.Run("empty patch still stamps the edit", func(t *testing.T) {
		got := ApplyUpdate(s, "P1", model.PostPatch{}, now)
		assert.Equal(t, "post P1", got.Items[0].Text)
		assert.True(t, got.Items[0].Edited())
	})

	t.Run("clock behind creation", func(t *testing.T) {
		got := ApplyUpdate(s, "P1", model.PostPatch{Text: &text}, base.Add(-24*time.Hour))
		require.NotNil(t, got.Items[0].UpdatedAt)
		assert.Equal(t, got.Items[0].CreatedAt, *got.Items[0].UpdatedAt)
	})
}

func TestApplyDelete(t *testing.T) {
	tests := []struct {
		name      string
		state     PageState
		id        model.ID
		wantIDs   []model.ID
		wantTotal int
	}{
		{
			name:      "removes loaded post",
			state:     readyState(post("P1", 1), post("P2", 2), post("P3", 3)),
			id:        "P2",
			wantIDs:   []model.ID{"P1", "P3"},
			wantTotal: 2,
		},
		{
			name:      "absent id is a no-op",
			state:     readyState(post("P1", 1)),
			id:        "P2",
			wantIDs:   []model.ID{"P1"},
			wantTotal: 1,
		},
		{
			name:      "last item",
			state:     readyState(post("P1", 1)),
			id:        "P1",
			wantIDs:   []model.ID{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDelete(tt.state, tt.id)
			assert.Equal(t, tt.wantIDs, ids(got))
			assert.Equal(t, tt.wantTotal, got.TotalItems)
			assert.GreaterOrEqual(t, got.TotalItems, len(got.Items))
		})
	}
}

func TestIsOwnPost(t *testing.T) {
	p := post("P1", 0)
	assert.True(t, IsOwnPost(p, "1"))
	assert.False(t, IsOwnPost(p, "2"))
	assert.False(t, IsOwnPost(p, ""))
}
