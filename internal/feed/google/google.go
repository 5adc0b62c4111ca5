package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"itemdash/internal/core"
	"itemdash/internal/feed"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads the item catalog and purchase ledger from a Google
// spreadsheet and appends new purchases to it.
//
// Expected layout: a catalog sheet with ID, Label, Description columns and
// a purchases sheet with Item ID, Date, Qty, Price, Total columns, both
// with a header row.
type Client struct {
	svc            *gsheet.Service
	spreadsheetID  string
	catalogSheet   string
	purchasesSheet string
}

var (
	_ feed.CatalogReader  = (*Client)(nil)
	_ feed.HistoryReader  = (*Client)(nil)
	_ feed.PurchaseWriter = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: GOOGLE_CATALOG_SHEET_NAME (default "Catalog"),
// GOOGLE_SHEET_NAME (purchases, default "Purchases").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	catalogSheet := strings.TrimSpace(os.Getenv("GOOGLE_CATALOG_SHEET_NAME"))
	if catalogSheet == "" {
		catalogSheet = "Catalog"
	}
	purchasesSheet := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if purchasesSheet == "" {
		purchasesSheet = "Purchases"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:            svc,
		spreadsheetID:  spreadsheetID,
		catalogSheet:   catalogSheet,
		purchasesSheet: purchasesSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ListItems implements feed.CatalogReader.
func (c *Client) ListItems(ctx context.Context) ([]core.Item, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:C", c.catalogSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	items, skipped := parseCatalogRows(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped invalid catalog rows", "sheet", c.catalogSheet, "count", skipped)
	}
	return items, nil
}

// ListHistories implements feed.HistoryReader. Ledger rows are grouped by
// item in first-seen order; within an item the sheet's row order is kept,
// which the feed contract requires to be date-ascending.
func (c *Client) ListHistories(ctx context.Context) ([]core.ItemHistory, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:E", c.purchasesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	histories, skipped := parsePurchaseRows(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped invalid ledger rows", "sheet", c.purchasesSheet, "count", skipped)
	}
	return histories, nil
}

// AppendPurchase implements feed.PurchaseWriter.
func (c *Client) AppendPurchase(ctx context.Context, itemID string, e core.PurchaseEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row from the ID column.
	rng := fmt.Sprintf("%s!A:A", c.purchasesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.purchasesSheet, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:E%d", c.purchasesSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		itemID,
		e.Date.Label(),
		e.Qty,
		e.Price.Dollars(),
		e.Total.Dollars(),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", dataRange, err)
	}

	return dataRange, nil
}
