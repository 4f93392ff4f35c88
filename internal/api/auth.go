package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/addalive/admin_console/internal/models"
)

const pathLogin = "/api/admin/login"

var ErrNoUser = errors.New("login response has no user")

type Auth struct {
	c Backend
}

func NewAuth(c Backend) *Auth { return &Auth{c: c} }

// Login authenticates an admin. The backend may return the user either as
// an object or as a one-element array; a missing access_token yields "".
func (a *Auth) Login(ctx context.Context, username, password string) (*models.SessionUser, string, error) {
	env, err := a.c.Post(ctx, pathLogin, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, "", err
	}
	if !env.HasResult() {
		return nil, "", ErrNoUser
	}

	var user *models.SessionUser
	if env.Result[0] == '[' {
		var list []models.SessionUser
		if err := json.Unmarshal(env.Result, &list); err != nil {
			return nil, "", fmt.Errorf("decode login result: %w", err)
		}
		if len(list) == 0 {
			return nil, "", ErrNoUser
		}
		user = &list[0]
	} else {
		user = &models.SessionUser{}
		if err := json.Unmarshal(env.Result, user); err != nil {
			return nil, "", fmt.Errorf("decode login result: %w", err)
		}
	}
	return user, env.AccessToken, nil
}
