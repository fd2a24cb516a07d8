package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// ID identifies posts, users, comments and friendships. Numeric ids coming
// from the wire are kept in their decimal form.
type ID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// UserRef is the author snapshot embedded in a post.
type UserRef struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type Post struct {
	ID        ID         `json:"id"`
	Text      string     `json:"text"`
	Author    UserRef    `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// PostPatch carries the editable fields of a post. Nil fields are left as they are.
type PostPatch struct {
	Text *string `json:"text,omitempty"`
	// UpdatedAt is the edit time reported by the backend. When nil the
	// caller's clock is used.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Apply merges the patch into p and stamps the edit time.
func (pp PostPatch) Apply(p Post, now time.Time) Post {
	if pp.Text != nil {
		p.Text = *pp.Text
	}
	if pp.UpdatedAt != nil {
		now = *pp.UpdatedAt
	}
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = &now
	return p
}

// Edited reports whether the post was changed after creation.
func (p Post) Edited() bool {
	return p.UpdatedAt != nil
}

// IsOwnedBy reports whether viewer wrote the post.
func (p Post) IsOwnedBy(viewer ID) bool {
	return viewer != "" && p.Author.ID == viewer
}
