package repository

import (
	"context"
	"net/url"
	"strings"

	"hospital-dashboard/internal/model"
)

type TokenRepository struct {
	api FormPoster
}

func NewTokenRepository(api FormPoster) *TokenRepository {
	return &TokenRepository{api: api}
}

// Issue exchanges staff credentials for a bearer credential using the
// OAuth2 password flow.
func (r *TokenRepository) Issue(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", strings.TrimSpace(username))
	form.Set("password", password)

	var out model.TokenResponse
	if err := r.api.PostForm(ctx, "/token", form, &out); err != nil {
		return model.TokenResponse{}, err
	}
	return out, nil
}
