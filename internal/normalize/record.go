package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pandaloves/social-posts-app/internal/model"
)

var (
	textKeys      = []string{"text", "content", "body"}
	createdAtKeys = []string{"createdAt", "created_at", "createDate"}
	updatedAtKeys = []string{"updatedAt", "updated_at", "lastUpdateDate"}
	userIDKeys    = []string{"userId", "user_id", "authorId", "author_id"}
	usernameKeys  = []string{"username", "authorName", "author_name"}
)

// timeLayouts covers RFC 3339 and the zone-less LocalDateTime the Java backend emits.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// decodePosts keeps the records that carry an id. The first record wins when
// an id repeats.
func decodePosts(records []any) []model.Post {
	posts := make([]model.Post, 0, len(records))
	seen := make(map[model.ID]struct{}, len(records))
	for _, r := range records {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		post, ok := decodePost(obj)
		if !ok {
			continue
		}
		if _, dup := seen[post.ID]; dup {
			continue
		}
		seen[post.ID] = struct{}{}
		posts = append(posts, post)
	}
	return posts
}

func decodePost(obj map[string]any) (model.Post, bool) {
	id := asID(obj["id"])
	if id == "" {
		return model.Post{}, false
	}

	post := model.Post{
		ID:        id,
		Text:      firstString(obj, textKeys),
		Author:    decodeAuthor(obj),
		CreatedAt: firstTime(obj, createdAtKeys),
	}

	if updated := firstTime(obj, updatedAtKeys); !updated.IsZero() {
		if updated.Before(post.CreatedAt) {
			updated = post.CreatedAt
		}
		post.UpdatedAt = &updated
	}

	return post, true
}

// decodeAuthor prefers the dedicated "author" object over the generic "user"
// object, then falls back to the flat userId/username pair.
func decodeAuthor(obj map[string]any) model.UserRef {
	if author, ok := obj["author"].(map[string]any); ok {
		return decodeUserRef(author)
	}
	if user, ok := obj["user"].(map[string]any); ok {
		return decodeUserRef(user)
	}

	var ref model.UserRef
	for _, key := range userIDKeys {
		if id := asID(obj[key]); id != "" {
			ref.ID = id
			break
		}
	}
	ref.Username = firstString(obj, usernameKeys)
	if name, ok := obj["author"].(string); ok && ref.Username == "" {
		ref.Username = name
	}
	return ref
}

func decodeUserRef(obj map[string]any) model.UserRef {
	ref := model.UserRef{
		ID:       asID(obj["id"]),
		Username: firstString(obj, []string{"username", "name"}),
		Email:    firstString(obj, []string{"email"}),
	}
	if ref.ID == "" {
		ref.ID = asID(obj["uuid"])
	}
	return ref
}

func asID(v any) model.ID {
	switch t := v.(type) {
	case json.Number:
		return model.ID(t.String())
	case string:
		return model.ID(strings.TrimSpace(t))
	}
	return ""
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			return s
		}
	}
	return ""
}

func firstTime(obj map[string]any, keys []string) time.Time {
	for _, key := range keys {
		if t, ok := asTime(obj[key]); ok {
			return t
		}
	}
	return time.Time{}
}

// ParseTime reads the timestamp formats the backends emit.
func ParseTime(s string) (time.Time, bool) {
	return asTime(s)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	case json.Number:
		// epoch milliseconds
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	}
	return time.Time{}, false
}
