package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the backend's paginated list envelope. Next and Previous are
// absolute URLs or nil.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ListFilter narrows a paginated listing.
type ListFilter struct {
	Search string
	Status string
	Role   string
	Page   int
}

// DecodeList reads an endpoint that answers with either a bare list or a
// Page, depending on whether the backend paginates it.
func DecodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}
	var page Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return page.Results, nil
}
