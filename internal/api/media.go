package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
)

// Media serves banners and posters. The list endpoint returns bare URLs
// while update and delete are addressed by id, which the list never exposes.
type Media struct {
	c    Backend
	Kind string
	base string
}

func NewBanners(c Backend) *Media {
	return &Media{c: c, Kind: "banners", base: "/api/admin/banners"}
}

func NewPosters(c Backend) *Media {
	return &Media{c: c, Kind: "posters", base: "/api/admin/posters"}
}

func (m *Media) List(ctx context.Context) ([]string, error) {
	env, err := m.c.Get(ctx, m.base, nil)
	if err != nil {
		return nil, err
	}
	urls := []string{}
	if err := decodeResult(env, &urls); err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

func (m *Media) Create(ctx context.Context, in models.MediaInput) error {
	form := apiclient.NewForm().Field("alt", in.Alt).File("image", in.Image)
	_, err := m.c.SendForm(ctx, http.MethodPost, m.base, form)
	return err
}

func (m *Media) Update(ctx context.Context, id string, in models.MediaInput) error {
	form := apiclient.NewForm()
	if in.Alt != "" {
		form.Field("alt", in.Alt)
	}
	form.File("image", in.Image)
	_, err := m.c.SendForm(ctx, http.MethodPut, m.base+"/"+url.PathEscape(id), form)
	return err
}

func (m *Media) Delete(ctx context.Context, id string) error {
	_, err := m.c.Delete(ctx, m.base+"/"+url.PathEscape(id))
	return err
}
