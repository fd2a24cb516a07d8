package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type pageMeta struct {
	totalPages    *int
	totalElements *int
	pageNumber    *int
	pageSize      *int
}

func (m pageMeta) present() bool {
	return m.totalPages != nil || m.totalElements != nil || m.pageNumber != nil || m.pageSize != nil
}

var (
	totalPagesKeys    = []string{"totalPages", "total_pages"}
	totalElementsKeys = []string{"totalElements", "total_elements", "totalItems", "total_items", "total", "count"}
	pageNumberKeys    = []string{"number", "pageNumber", "page_number", "page"}
	pageSizeKeys      = []string{"size", "pageSize", "page_size", "limit"}
)

func readMeta(obj map[string]any, variant Variant) pageMeta {
	meta := pageMeta{
		totalPages:    firstInt(obj, totalPagesKeys),
		totalElements: firstInt(obj, totalElementsKeys),
		pageNumber:    firstInt(obj, pageNumberKeys),
		pageSize:      firstInt(obj, pageSizeKeys),
	}

	// Spring nests the request side of the page under "pageable".
	if pageable, ok := obj["pageable"].(map[string]any); ok {
		if meta.pageNumber == nil {
			meta.pageNumber = firstInt(pageable, []string{"pageNumber"})
		}
		if meta.pageSize == nil {
			meta.pageSize = firstInt(pageable, []string{"pageSize"})
		}
	}

	if variant == VariantDataEnvelope && meta.pageNumber != nil {
		zeroBased := *meta.pageNumber - 1
		if zeroBased < 0 {
			zeroBased = 0
		}
		meta.pageNumber = &zeroBased
	}

	return meta
}

func firstInt(obj map[string]any, keys []string) *int {
	for _, key := range keys {
		if n, ok := asInt(obj[key]); ok {
			return &n
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil && !math.IsNaN(f) {
			return int(f), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}
