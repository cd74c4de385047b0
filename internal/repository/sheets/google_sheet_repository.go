package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/costeo/internal/config"
)

// appendChunk bounds the rows sent per Values.Append call.
const appendChunk = 500

var errEmptyRange = errors.New("sheet range must not be empty")

// Repository is the cost-sheet spreadsheet as the costing service sees it.
type Repository interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository writes cost rows through the Sheets v4 API.
type GoogleSheetRepository struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with a service-account file and
// targets the configured spreadsheet.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id must be provided")
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		values:        sheetsapi.NewSpreadsheetsValuesService(svc),
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows appends rows below the table found in sheetRange. Values are
// written RAW so month strings such as "2025-02" are not turned into dates.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return errEmptyRange
	}

	for start := 0; start < len(rows); start += appendChunk {
		end := min(start+appendChunk, len(rows))
		payload := &sheetsapi.ValueRange{MajorDimension: "ROWS", Values: rows[start:end]}

		resp, err := r.values.Append(r.spreadsheetID, sheetRange, payload).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("append %d rows to %s: %w", end-start, sheetRange, err)
		}

		updated := ""
		if resp.Updates != nil {
			updated = resp.Updates.UpdatedRange
		}
		r.logger.Debug("cost rows appended", zap.String("range", updated), zap.Int("rows", end-start))
	}
	return nil
}

// ReadRange returns the unformatted cell values of sheetRange.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, errEmptyRange
	}

	resp, err := r.values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}
