// Package sheets exports the transaction list to a Google Sheet, as an
// optional backup surface next to the API's own storage.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/Wellerson-M/controle-financeiro/internal/core"
	applog "github.com/Wellerson-M/controle-financeiro/internal/log"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	log           *applog.Logger
}

// New creates an exporter for one spreadsheet tab. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Exporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Transactions"
	}

	svc, err := newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		log:           applog.Default().WithComponent(applog.ComponentSheets),
	}, nil
}

func newService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		raw, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = raw
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// Export appends one row per transaction after the existing content of the
// sheet. Returns the number of rows written.
func (e *Exporter) Export(ctx context.Context, txs []core.Transaction) (int, error) {
	if e.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}
	if len(txs) == 0 {
		return 0, nil
	}

	values := make([][]any, 0, len(txs))
	for _, tr := range txs {
		amount, _ := tr.Amount.Float64()
		values = append(values, []any{
			tr.Date.Format("2006-01-02"),
			tr.Description,
			string(tr.Kind),
			tr.Category,
			amount,
		})
	}

	rng := fmt.Sprintf("%s!A:E", e.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}
	e.log.InfoContext(ctx, "rows appended", "sheet", e.sheetName, "rows", len(values))
	return len(values), nil
}
