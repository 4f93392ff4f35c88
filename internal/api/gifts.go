package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
)

const (
	pathGift         = "/api/admin/gift"
	pathGiftCategory = "/api/admin/gift-category"
)

var ErrGiftFilesRequired = errors.New("preview image and SVGA animation are required")

type Gifts struct {
	c Backend
}

func NewGifts(c Backend) *Gifts { return &Gifts{c: c} }

func (g *Gifts) List(ctx context.Context, query url.Values) ([]models.Gift, error) {
	env, err := g.c.Get(ctx, pathGift, query)
	if err != nil {
		return nil, err
	}
	gifts := []models.Gift{}
	if err := decodeResult(env, &gifts); err != nil {
		return nil, err
	}
	if gifts == nil {
		gifts = []models.Gift{}
	}
	return gifts, nil
}

// Categories returns the derived category names.
func (g *Gifts) Categories(ctx context.Context) ([]string, error) {
	env, err := g.c.Get(ctx, pathGiftCategory, nil)
	if err != nil {
		return nil, err
	}
	cats := []string{}
	if err := decodeResult(env, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

func (g *Gifts) Create(ctx context.Context, in models.GiftInput) (*models.Gift, error) {
	if in.PreviewImage == nil || in.SvgaImage == nil {
		return nil, ErrGiftFilesRequired
	}
	env, err := g.c.SendForm(ctx, http.MethodPost, pathGift, giftForm(in, true))
	if err != nil {
		return nil, err
	}
	var gift *models.Gift
	if err := decodeResult(env, &gift); err != nil {
		return nil, err
	}
	return gift, nil
}

func (g *Gifts) Update(ctx context.Context, id string, in models.GiftInput) (*models.Gift, error) {
	env, err := g.c.SendForm(ctx, http.MethodPut, pathGift+"/"+url.PathEscape(id), giftForm(in, false))
	if err != nil {
		return nil, err
	}
	var gift *models.Gift
	if err := decodeResult(env, &gift); err != nil {
		return nil, err
	}
	return gift, nil
}

func (g *Gifts) Delete(ctx context.Context, id string) error {
	_, err := g.c.Delete(ctx, pathGift+"/"+url.PathEscape(id))
	return err
}

// giftForm builds the multipart body; on update empty fields are omitted.
func giftForm(in models.GiftInput, create bool) *apiclient.Form {
	f := apiclient.NewForm()
	if create || in.Name != "" {
		f.Field("name", in.Name)
	}
	if create || in.Category != "" {
		f.Field("category", in.Category)
	}
	if in.Diamonds != nil {
		f.Field("diamonds", strconv.FormatInt(*in.Diamonds, 10))
	}
	if in.CoinPrice != nil {
		f.Field("coinPrice", strconv.FormatInt(*in.CoinPrice, 10))
	}
	f.File("previewImage", in.PreviewImage)
	f.File("svgaImage", in.SvgaImage)
	return f
}
