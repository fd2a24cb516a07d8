package feed

import (
	"time"

	"github.com/pandaloves/social-posts-app/internal/model"
)

// ApplyCreate puts a confirmed new post at the head of the list. TotalPages
// and CurrentPageIndex are left alone until the next refresh. A post whose id
// is already loaded is replaced in place and nothing is counted twice.
func ApplyCreate(s PageState, post model.Post) PageState {
	if i := indexOf(s.Items, post.ID); i >= 0 {
		items := make([]model.Post, len(s.Items))
		copy(items, s.Items)
		items[i] = post
		s.Items = items
		return s
	}

	items := make([]model.Post, 0, len(s.Items)+1)
	items = append(items, post)
	items = append(items, s.Items...)
	s.Items = items
	s.TotalItems++
	if s.TotalItems < len(items) {
		s.TotalItems = len(items)
	}
	return s
}

// ApplyUpdate merges patch into the loaded post with the given id. A post
// that is not loaded is left to the next page load.
func ApplyUpdate(s PageState, id model.ID, patch model.PostPatch, now time.Time) PageState {
	i := indexOf(s.Items, id)
	if i < 0 {
		return s
	}

	items := make([]model.Post, len(s.Items))
	copy(items, s.Items)
	items[i] = patch.Apply(items[i], now)
	s.Items = items
	return s
}

// ApplyDelete drops the post with the given id, if loaded.
func ApplyDelete(s PageState, id model.ID) PageState {
	i := indexOf(s.Items, id)
	if i < 0 {
		return s
	}

	items := make([]model.Post, 0, len(s.Items)-1)
	items = append(items, s.Items[:i]...)
	items = append(items, s.Items[i+1:]...)
	s.Items = items
	if s.TotalItems > 0 {
		s.TotalItems--
	}
	if s.TotalItems < len(items) {
		s.TotalItems = len(items)
	}
	return s
}
