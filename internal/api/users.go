package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/addalive/admin_console/internal/models"
)

const (
	pathUsers           = "/api/power-shared/users"
	pathUsersSearch     = "/api/power-shared/users/search"
	pathUsersAssignCoin = "/api/power-shared/users/assign-coin"
	pathAssignRole      = "/api/admin/user/asign-role/"
	pathActivityZone    = "/api/admin/users/activity-zone"
	pathUserStats       = "/api/admin/users/stats/update/"
	pathModerators      = "/api/admin/users/moderators"
	pathBannedUsers     = "/api/admin/users/banned-users"

	// RoleAll lists users of every role.
	RoleAll = "all"
)

type ZoneUpdate struct {
	ID       string     `json:"id"`
	Zone     string     `json:"zone"`
	DateTill *time.Time `json:"dateTill,omitempty"`
}

type StatsUpdate struct {
	Stars    *int64 `json:"stars,omitempty"`
	Diamonds *int64 `json:"diamonds,omitempty"`
}

type CoinAssignment struct {
	UserID   string `json:"userId"`
	Coins    int64  `json:"coins"`
	UserRole string `json:"userRole"`
}

// Users — операции над пользователями и ролями.
type Users struct {
	c Backend
}

func NewUsers(c Backend) *Users { return &Users{c: c} }

// ByRole lists users of a role; RoleAll sends no userRole filter.
func (u *Users) ByRole(ctx context.Context, role string, query url.Values) (*models.UserPage, error) {
	q := cloneQuery(query)
	if role != RoleAll {
		q.Set("userRole", role)
	}
	env, err := u.c.Get(ctx, pathUsers, q)
	if err != nil {
		return nil, err
	}
	return decodeUserPage(env)
}

func (u *Users) Search(ctx context.Context, email string, query url.Values) (*models.UserPage, error) {
	q := cloneQuery(query)
	q.Set("email", email)
	env, err := u.c.Get(ctx, pathUsersSearch, q)
	if err != nil {
		return nil, err
	}
	return decodeUserPage(env)
}

func (u *Users) Moderators(ctx context.Context) ([]models.User, error) {
	return u.list(ctx, pathModerators, nil)
}

func (u *Users) Banned(ctx context.Context, query url.Values) ([]models.User, error) {
	return u.list(ctx, pathBannedUsers, query)
}

func (u *Users) AssignRole(ctx context.Context, role, userID string) (*models.User, error) {
	env, err := u.c.Put(ctx, pathAssignRole+url.PathEscape(role), map[string]string{"userId": userID})
	if err != nil {
		return nil, err
	}
	return decodeUser(env)
}

func (u *Users) UpdateActivityZone(ctx context.Context, upd ZoneUpdate) (*models.User, error) {
	if upd.DateTill != nil {
		t := upd.DateTill.UTC()
		upd.DateTill = &t
	}
	env, err := u.c.Put(ctx, pathActivityZone, upd)
	if err != nil {
		return nil, err
	}
	return decodeUser(env)
}

func (u *Users) UpdateStats(ctx context.Context, userID string, upd StatsUpdate) (*models.UserStats, error) {
	env, err := u.c.Post(ctx, pathUserStats+url.PathEscape(userID), upd)
	if err != nil {
		return nil, err
	}
	var stats *models.UserStats
	if err := decodeResult(env, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// AssignCoins moves coins from the admin's balance to a user. Which roles
// may receive coins is enforced by the backend.
func (u *Users) AssignCoins(ctx context.Context, a CoinAssignment) (*models.UserStats, error) {
	env, err := u.c.Put(ctx, pathUsersAssignCoin, a)
	if err != nil {
		return nil, err
	}
	var stats *models.UserStats
	if err := decodeResult(env, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (u *Users) list(ctx context.Context, path string, query url.Values) ([]models.User, error) {
	env, err := u.c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	var raw []rawUser
	if err := decodeResult(env, &raw); err != nil {
		return nil, err
	}
	return normalizeUsers(raw), nil
}

func decodeUser(env *models.Envelope) (*models.User, error) {
	if !env.HasResult() {
		return nil, nil
	}
	var raw rawUser
	if err := json.Unmarshal(env.Result, &raw); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	user := normalizeUser(raw)
	return &user, nil
}

// decodeUserPage accepts {users, pagination} or a bare array.
func decodeUserPage(env *models.Envelope) (*models.UserPage, error) {
	page := &models.UserPage{Users: []models.User{}}
	if !env.HasResult() {
		return page, nil
	}
	if env.Result[0] == '[' {
		var raw []rawUser
		if err := json.Unmarshal(env.Result, &raw); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}
		page.Users = normalizeUsers(raw)
		return page, nil
	}
	var body struct {
		Users      []rawUser       `json:"users"`
		Pagination json.RawMessage `json:"pagination"`
	}
	if err := json.Unmarshal(env.Result, &body); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	page.Users = normalizeUsers(body.Users)
	page.Pagination = body.Pagination
	return page, nil
}
