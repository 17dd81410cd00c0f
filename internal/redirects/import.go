package redirects

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"go301/internal/models"
)

// AddFromBulkImport attempts to add one exact-match rule on behalf of a
// bulk import. Unlike Add it never fails the caller: every outcome comes
// back as a row result so a batch can continue past bad rows.
func (repo *Repository) AddFromBulkImport(ctx context.Context, oldURL, newURL, notes string) models.ImportRowResult {
	if isHeaderCell(oldURL, "oldurl") || isHeaderCell(newURL, "newurl") {
		return models.ImportRowResult{Skipped: true, Message: "skipped header row from CSV file"}
	}

	redirect, err := repo.Add(ctx, false, oldURL, newURL, notes)
	if err != nil {
		return models.ImportRowResult{Message: err.Error()}
	}
	return models.ImportRowResult{Success: true, Redirect: redirect}
}

// ImportCSV reads rows of the form oldUrl,newUrl[,notes] and adds each as
// an exact-match rule. Rows are applied sequentially; the report carries
// per-row failure reasons alongside the aggregate counts. The error return
// covers unreadable input only, never bad rows.
func (repo *Repository) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	report := &models.ImportReport{}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// A malformed row fails like any other bad row; the reader is
			// already positioned on the next line.
			row++
			report.Failed++
			report.Failures = append(report.Failures, models.ImportRowResult{
				Row:     row,
				Message: err.Error(),
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		row++

		result := repo.importRow(ctx, record)
		result.Row = row
		switch {
		case result.Skipped:
			report.Skipped++
		case result.Success:
			report.Imported++
		default:
			report.Failed++
			report.Failures = append(report.Failures, result)
		}
	}
	return report, nil
}

func (repo *Repository) importRow(ctx context.Context, record []string) models.ImportRowResult {
	if len(record) < 2 {
		return models.ImportRowResult{Message: "row must contain at least an old url and a new url"}
	}

	notes := ""
	if len(record) > 2 {
		notes = record[2]
	}
	return repo.AddFromBulkImport(ctx, record[0], record[1], notes)
}

// isHeaderCell matches a CSV header cell, tolerant of case and spaces.
func isHeaderCell(cell, name string) bool {
	return strings.ReplaceAll(strings.ToLower(cell), " ", "") == name
}
