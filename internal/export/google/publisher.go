// Package google publishes compiled reports into a Google spreadsheet tab,
// mirroring the xlsx layout so reviewers can share a live copy.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"horario/internal/export"
)

// Publisher implements export.Publisher against the Google Sheets API.
type Publisher struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.Publisher = (*Publisher)(nil)

// NewFromEnv creates a publisher from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_REPORT_SHEET_NAME (default "Control horario"),
// GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS for auth
// (Application Default Credentials otherwise).
func NewFromEnv(ctx context.Context) (*Publisher, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Control horario"
	}

	var opts []goption.ClientOption
	if credsJSON := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON")); credsJSON != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(credsJSON)))
	} else if credsFile := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); credsFile != "" {
		opts = append(opts, goption.WithCredentialsFile(credsFile))
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Publisher{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// PublishReport clears the target tab and writes the report rows. Formula
// cells go through USER_ENTERED so the spreadsheet engine evaluates them.
func (p *Publisher) PublishReport(ctx context.Context, doc *export.Document) (string, error) {
	clearRange := fmt.Sprintf("%s!A1:Z10000", p.sheetName)
	if _, err := p.svc.Spreadsheets.Values.Clear(p.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear report range: %w", err)
	}

	values := make([][]any, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		line := make([]any, 0, len(row.Cells))
		for _, cell := range row.Cells {
			switch {
			case cell.Formula != "":
				line = append(line, cell.Formula)
			case cell.Value != nil:
				line = append(line, cell.Value)
			default:
				line = append(line, "")
			}
		}
		values = append(values, line)
	}

	writeRange := fmt.Sprintf("%s!A1", p.sheetName)
	resp, err := p.svc.Spreadsheets.Values.Update(p.spreadsheetID, writeRange, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write report rows: %w", err)
	}

	if resp.UpdatedRange != "" {
		return resp.UpdatedRange, nil
	}
	return writeRange, nil
}
