// Package sheets loads the dataset from a Google Sheets tab whose first row
// holds the Korean field names.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"toheoje/internal/core"
)

// Config selects the spreadsheet tab and the service account used to read it.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Source struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a read-only Sheets client. Extra options are appended after the
// credentials, so tests can point the client at a local endpoint.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Source, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if len(opts) == 0 {
		creds, err := credentials(cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Source{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: cfg.SheetName}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

func (s *Source) Name() string {
	return "sheets:" + s.spreadsheetID + "/" + s.sheetName
}

func (s *Source) Load(ctx context.Context) ([]core.Record, error) {
	rng := fmt.Sprintf("'%s'!A:Z", strings.ReplaceAll(s.sheetName, "'", "''"))
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			le := core.NewLoadError(s.Name(), core.ErrStatus, err)
			le.StatusCode = gerr.Code
			return nil, le
		}
		return nil, core.NewLoadError(s.Name(), core.ErrFetch, err)
	}

	records, err := parseRows(resp.Values)
	if err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrDecode, err)
	}
	return records, nil
}
