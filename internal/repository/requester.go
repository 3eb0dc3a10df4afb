// Package repository reads and writes hospital records through the hospital
// API. Every method is one remote call; nothing is cached, so callers always
// see the API's current state.
package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Requester is the authenticated client as seen by repositories.
type Requester interface {
	Do(ctx context.Context, method string, path string, body any, out any) error
}

// FormPoster sends urlencoded forms, needed only by the token endpoint.
type FormPoster interface {
	PostForm(ctx context.Context, path string, form url.Values, out any) error
}

// collection is the list/create/update/delete shape shared by the API's
// record endpoints.
type collection[T any] struct {
	api  Requester
	base string
}

func (c collection[T]) list(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.api.Do(ctx, http.MethodGet, c.base+"/", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c collection[T]) create(ctx context.Context, in any) (T, error) {
	var out T
	err := c.api.Do(ctx, http.MethodPost, c.base+"/", in, &out)
	return out, err
}

func (c collection[T]) update(ctx context.Context, id int64, in any) (T, error) {
	var out T
	err := c.api.Do(ctx, http.MethodPut, c.item(id), in, &out)
	return out, err
}

func (c collection[T]) delete(ctx context.Context, id int64) error {
	return c.api.Do(ctx, http.MethodDelete, c.item(id), nil, nil)
}

func (c collection[T]) item(id int64) string {
	return fmt.Sprintf("%s/%d", c.base, id)
}
