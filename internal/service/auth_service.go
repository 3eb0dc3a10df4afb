package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hospital-dashboard/internal/authz"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/internal/session"
	"hospital-dashboard/pkg/apierror"
)

type AuthService struct {
	tokens  *repository.TokenRepository
	session *session.Session
	gate    *authz.Gate
}

func NewAuthService(tokens *repository.TokenRepository, sess *session.Session, gate *authz.Gate) *AuthService {
	return &AuthService{tokens: tokens, session: sess, gate: gate}
}

// Login obtains a credential from the hospital API and makes it the current
// session.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.SessionInfo, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return model.SessionInfo{}, apierror.BadRequest("username and password are required", "")
	}

	token, err := s.tokens.Issue(ctx, username, password)
	if err != nil {
		return model.SessionInfo{}, err
	}

	if _, err := s.session.Login(token.AccessToken); err != nil {
		if errors.Is(err, model.ErrMalformedCredential) {
			return model.SessionInfo{}, apierror.New(apierror.CodeMalformedCredential, "hospital API issued an unreadable credential", "/login", http.StatusUnauthorized)
		}
		return model.SessionInfo{}, err
	}

	return s.Current(), nil
}

func (s *AuthService) Logout() error {
	return s.session.Logout()
}

func (s *AuthService) Current() model.SessionInfo {
	claim, ok := s.session.Claim()
	if !ok {
		return model.SessionInfo{Authenticated: false, Menu: []model.MenuItem{}}
	}

	info := model.SessionInfo{
		Authenticated: true,
		Subject:       claim.Subject,
		Role:          &claim.Role,
		Menu:          s.gate.VisibleMenu(claim.Role),
	}
	if !claim.ExpiresAt.IsZero() {
		expires := claim.ExpiresAt
		info.ExpiresAt = &expires
	}
	return info
}
