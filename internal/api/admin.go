package api

import (
	"context"

	"github.com/addalive/admin_console/internal/models"
)

const (
	pathAdminAuth       = "/api/admin/auth"
	pathAdminAssignCoin = "/api/admin/auth/assign-coin"
)

// Admin covers the signed-in administrator's own profile.
type Admin struct {
	c Backend
}

func NewAdmin(c Backend) *Admin { return &Admin{c: c} }

func (a *Admin) Profile(ctx context.Context) (*models.AdminProfile, error) {
	env, err := a.c.Get(ctx, pathAdminAuth, nil)
	if err != nil {
		return nil, err
	}
	var p *models.AdminProfile
	if err := decodeResult(env, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *Admin) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.AdminProfile, error) {
	env, err := a.c.Put(ctx, pathAdminAuth, upd)
	if err != nil {
		return nil, err
	}
	var p *models.AdminProfile
	if err := decodeResult(env, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// AssignCoins tops up the admin's own coin balance.
func (a *Admin) AssignCoins(ctx context.Context, coins int64) (*models.AdminProfile, error) {
	env, err := a.c.Put(ctx, pathAdminAssignCoin, map[string]int64{"coins": coins})
	if err != nil {
		return nil, err
	}
	var p *models.AdminProfile
	if err := decodeResult(env, &p); err != nil {
		return nil, err
	}
	return p, nil
}
