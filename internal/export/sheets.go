package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/addalive/admin_console/internal/models"
)

var (
	spreadsheetURL = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)
	spreadsheetID  = regexp.MustCompile(`^[a-zA-Z0-9-_]{20,}$`)

	ErrBadSpreadsheet = errors.New("invalid Google Sheets URL")
)

// SpreadsheetID accepts either a full sheet URL or a bare id.
func SpreadsheetID(ref string) (string, error) {
	if m := spreadsheetURL.FindStringSubmatch(ref); len(m) == 2 {
		return m[1], nil
	}
	if spreadsheetID.MatchString(ref) {
		return ref, nil
	}
	return "", ErrBadSpreadsheet
}

// Sheets writes user tables into an existing spreadsheet. The service
// account behind the credentials needs edit access to it.
type Sheets struct {
	srv *sheets.Service
}

func NewSheets(ctx context.Context, opts ...option.ClientOption) (*Sheets, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init Google Sheets API: %w", err)
	}
	return &Sheets{srv: srv}, nil
}

// NewSheetsFromFile is NewSheets with a service-account credentials file.
func NewSheetsFromFile(ctx context.Context, credentialsFile string) (*Sheets, error) {
	return NewSheets(ctx, option.WithCredentialsFile(credentialsFile))
}

// WriteUsers replaces the first sheet's contents with the users table and
// returns the number of rows written, header included.
func (s *Sheets) WriteUsers(ctx context.Context, id string, users []models.User) (int, error) {
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	values := append([][]any{header}, Rows(users)...)

	if _, err := s.srv.Spreadsheets.Values.Clear(id, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("clear sheet: %w", err)
	}
	resp, err := s.srv.Spreadsheets.Values.Update(id, "A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("write sheet: %w", err)
	}
	return int(resp.UpdatedRows), nil
}
