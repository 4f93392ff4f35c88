package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/addalive/admin_console/internal/models"
)

// Form collects multipart fields and files in insertion order.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct{ name, value string }

type formFile struct {
	name   string
	upload *models.Upload
}

func NewForm() *Form { return &Form{} }

func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

// File adds an upload; nil uploads are skipped.
func (f *Form) File(name string, up *models.Upload) *Form {
	if up != nil {
		f.files = append(f.files, formFile{name, up})
	}
	return f
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.name, err)
		}
	}
	for _, ff := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ff.name, ff.upload.Filename))
		ct := ff.upload.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", ff.name, err)
		}
		if _, err := part.Write(ff.upload.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", ff.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
