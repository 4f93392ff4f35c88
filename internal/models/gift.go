package models

import "time"

type Gift struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	SendCount    *int64     `json:"sendCount,omitempty"`
	Diamonds     int64      `json:"diamonds"`
	CoinPrice    int64      `json:"coinPrice"`
	PreviewImage string     `json:"previewImage"`
	SvgaImage    string     `json:"svgaImage"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Upload is a file taken from an admin form and forwarded to the backend.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// GiftInput — данные формы подарка. При создании оба файла обязательны,
// при обновлении отправляются только заданные поля.
type GiftInput struct {
	Name         string
	Category     string
	Diamonds     *int64
	CoinPrice    *int64
	PreviewImage *Upload
	SvgaImage    *Upload
}

// MediaInput is the create/update payload of banners and posters.
type MediaInput struct {
	Alt   string
	Image *Upload
}
