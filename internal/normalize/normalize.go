// Package normalize turns the page payloads of the different backend
// revisions into one canonical fragment. Every shape the client has met is a
// Variant; the variant is resolved here and nowhere else.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pandaloves/social-posts-app/internal/model"
)

type Variant int

const (
	// VariantEmpty is a record with no recognizable list.
	VariantEmpty Variant = iota
	// VariantBareList is a top-level array of posts.
	VariantBareList
	// VariantItemsEnvelope is {"items": [...], "page", "pageSize", "total"}.
	VariantItemsEnvelope
	// VariantSpringPage is {"content": [...], "totalPages", "totalElements", "number", "size"}.
	VariantSpringPage
	// VariantPostsEnvelope is {"posts": [...]}.
	VariantPostsEnvelope
	// VariantDataEnvelope is {"data": [...], "page", "limit", "total"} with a 1-based page.
	VariantDataEnvelope
)

func (v Variant) String() string {
	switch v {
	case VariantBareList:
		return "bare-list"
	case VariantItemsEnvelope:
		return "items"
	case VariantSpringPage:
		return "spring-page"
	case VariantPostsEnvelope:
		return "posts"
	case VariantDataEnvelope:
		return "data"
	default:
		return "empty"
	}
}

// Fragment is one normalized page. PageSize is 0 when the server did not report it.
type Fragment struct {
	Variant       Variant
	Items         []model.Post
	TotalPages    int
	TotalElements int
	PageNumber    int
	PageSize      int
}

// listKeys is the lookup order for the list field of an envelope.
var listKeys = []struct {
	key     string
	variant Variant
}{
	{"items", VariantItemsEnvelope},
	{"content", VariantSpringPage},
	{"posts", VariantPostsEnvelope},
	{"data", VariantDataEnvelope},
}

// Normalize decodes raw and reshapes it into a Fragment.
func Normalize(raw []byte) (Fragment, error) {
	v, err := decode(raw)
	if err != nil {
		return Fragment{}, malformed("payload is not valid JSON", err)
	}

	switch t := v.(type) {
	case nil:
		return Fragment{}, malformed("payload is null", nil)
	case []any:
		items := decodePosts(t)
		return applyMeta(Fragment{Variant: VariantBareList, Items: items}, pageMeta{}), nil
	case map[string]any:
		f, meta := fromEnvelope(t, true)
		return applyMeta(f, meta), nil
	default:
		return Fragment{}, malformed(fmt.Sprintf("top-level %T is not a record", t), nil)
	}
}

// Record decodes a single post record, as returned by create and update
// calls. A record wrapped in {"data": {...}} or {"post": {...}} is unwrapped.
func Record(raw []byte) (model.Post, error) {
	v, err := decode(raw)
	if err != nil {
		return model.Post{}, malformed("payload is not valid JSON", err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return model.Post{}, malformed(fmt.Sprintf("top-level %T is not a record", v), nil)
	}
	if _, hasID := obj["id"]; !hasID {
		for _, key := range []string{"data", "post"} {
			if inner, ok := obj[key].(map[string]any); ok {
				obj = inner
				break
			}
		}
	}

	post, ok := decodePost(obj)
	if !ok {
		return model.Post{}, malformed("record has no id", nil)
	}
	return post, nil
}

func decode(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty payload")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after payload")
	}

	return v, nil
}

// fromEnvelope finds the list of an envelope. An object under a list key is
// searched once more, for servers that wrap the page in {"data": {...}}.
func fromEnvelope(obj map[string]any, descend bool) (Fragment, pageMeta) {
	for _, lk := range listKeys {
		switch val := obj[lk.key].(type) {
		case []any:
			return Fragment{Variant: lk.variant, Items: decodePosts(val)}, readMeta(obj, lk.variant)
		case map[string]any:
			if !descend {
				continue
			}
			if f, meta := fromEnvelope(val, false); f.Variant != VariantEmpty {
				return f, meta
			}
		}
	}

	return Fragment{Variant: VariantEmpty}, readMeta(obj, VariantEmpty)
}

func applyMeta(f Fragment, meta pageMeta) Fragment {
	n := len(f.Items)
	if !meta.present() {
		f.TotalPages = 1
		f.TotalElements = n
		f.PageNumber = 0
		return f
	}

	if meta.pageNumber != nil && *meta.pageNumber > 0 {
		f.PageNumber = *meta.pageNumber
	}
	if meta.pageSize != nil && *meta.pageSize > 0 {
		f.PageSize = *meta.pageSize
	}

	switch {
	case meta.totalElements != nil:
		f.TotalElements = *meta.totalElements
	case f.PageSize > 0:
		f.TotalElements = f.PageNumber*f.PageSize + n
	default:
		f.TotalElements = n
	}
	if f.TotalElements < n {
		f.TotalElements = n
	}

	switch {
	case meta.totalPages != nil:
		f.TotalPages = *meta.totalPages
	case f.PageSize > 0:
		f.TotalPages = (f.TotalElements + f.PageSize - 1) / f.PageSize
	default:
		f.TotalPages = f.PageNumber + 1
	}
	if n > 0 && f.TotalPages <= f.PageNumber {
		f.TotalPages = f.PageNumber + 1
	}
	if f.TotalPages < 0 {
		f.TotalPages = 0
	}

	return f
}
