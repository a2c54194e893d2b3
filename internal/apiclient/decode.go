package apiclient

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// DecodeList reads either a bare JSON array or an envelope of the form {"data": [...]}.
// Anything else decodes to an empty list.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	items := []T{}
	if len(trimmed) == 0 {
		return items, nil
	}
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(err, "decode list")
		}
		return items, nil
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, errors.Wrap(err, "decode list envelope")
		}
		inner := bytes.TrimSpace(envelope.Data)
		if len(inner) == 0 || inner[0] != '[' {
			return items, nil
		}
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, errors.Wrap(err, "decode list")
		}
		return items, nil
	default:
		return items, nil
	}
}

// GetList fetches path and decodes the reply with DecodeList.
func GetList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.IsJSON {
		return []T{}, nil
	}
	return DecodeList[T](resp.Data)
}

// GetJSON fetches path and decodes the reply into a T.
func GetJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	resp, err := c.Get(ctx, path)
	if err != nil {
		return out, err
	}
	err = resp.Decode(&out)
	return out, err
}

// Paginated is the envelope the backend uses for paged collections.
type Paginated[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// GetPage fetches a paged collection; a bare array reply is wrapped into a single page.
func GetPage[T any](ctx context.Context, c *Client, path string) (Paginated[T], error) {
	var page Paginated[T]
	resp, err := c.Get(ctx, path)
	if err != nil {
		return page, err
	}
	trimmed := bytes.TrimSpace(resp.Data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return page, errors.Wrap(err, "decode page")
		}
		if page.Data == nil {
			page.Data = []T{}
		}
		return page, nil
	}
	items, err := DecodeList[T](trimmed)
	if err != nil {
		return page, err
	}
	page.Data = items
	page.CurrentPage, page.LastPage, page.PerPage, page.Total = 1, 1, len(items), len(items)
	return page, nil
}
