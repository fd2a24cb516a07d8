// Package feed keeps the paged post list behind a feed or wall view. A Store
// fetches pages through a Fetcher, merges them by the replace or append rule
// and applies backend-confirmed mutations locally.
package feed

import (
	"slices"

	"github.com/pandaloves/social-posts-app/internal/model"
)

type Mode int

const (
	// Replace swaps the whole list for the requested page.
	Replace Mode = iota
	// Append loads the page after the current one and adds it to the end.
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "empty"
	}
}

// PageState is the list a view renders. Items are newest first and
// len(Items) never exceeds TotalItems.
type PageState struct {
	Items            []model.Post
	CurrentPageIndex int
	TotalPages       int
	TotalItems       int
	PageSize         int
}

// HasMore reports whether an Append would fetch anything.
func (s PageState) HasMore() bool {
	return s.CurrentPageIndex+1 < s.TotalPages
}

// Find returns the loaded post with the given id.
func (s PageState) Find(id model.ID) (model.Post, bool) {
	if i := indexOf(s.Items, id); i >= 0 {
		return s.Items[i], true
	}
	return model.Post{}, false
}

// clone copies the item slice so snapshots never alias store memory.
func (s PageState) clone() PageState {
	s.Items = slices.Clone(s.Items)
	return s
}

func indexOf(items []model.Post, id model.ID) int {
	return slices.IndexFunc(items, func(p model.Post) bool {
		return p.ID == id
	})
}

// IsOwnPost reports whether the viewer may edit or delete p.
func IsOwnPost(p model.Post, viewer model.ID) bool {
	return p.IsOwnedBy(viewer)
}
