package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	apperrors "opam/internal/errors"
	"opam/internal/logger"
	"opam/internal/normalize"
)

// maxReportedErrors caps how many per-row error messages are captured
// in the import report.
const maxReportedErrors = 5

// importService drives the normalizer and scorer over a full CSV file.
type importService struct {
	transactionService TransactionServicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(transactionService TransactionServicer) ImportServicer {
	return &importService{transactionService: transactionService}
}

// ImportCSV processes every row of an uploaded CSV file in file order.
// Row-level failures (bad values, rejected inserts) are counted and
// reported; only a structurally unreadable or empty file fails the
// whole batch. Rows are scored against the history as it stands when
// they are reached, so earlier rows in the same batch influence the
// scores of later ones.
func (s *importService) ImportCSV(userID string, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.ErrInvalidCSV
	}

	report := &ImportReport{Errors: []string{}}

	for i := 0; ; i++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		// Row numbers are 1-based and offset by the header row.
		rowNum := i + 2
		if err != nil {
			s.recordError(report, rowNum, "malformed CSV row")
			continue
		}

		row := make(normalize.Row, len(header))
		for col, name := range header {
			if col < len(fields) {
				row[name] = fields[col]
			}
		}

		record, err := normalize.NormalizeRow(row)
		if err != nil {
			s.recordError(report, rowNum, err.Error())
			continue
		}

		date, err := time.Parse(normalize.DateLayout, record.Date)
		if err != nil {
			s.recordError(report, rowNum, "invalid date")
			continue
		}

		_, err = s.transactionService.CreateTransaction(
			userID,
			record.Amount,
			record.Category,
			record.Merchant,
			record.Description,
			record.PaymentMethod,
			date,
			record.Recurring,
		)
		if err != nil {
			// Persistence failures are per-row errors, not batch failures.
			logger.Get().Warnw("import row insert failed",
				"user_id", userID,
				"row", rowNum,
				"error", err.Error(),
			)
			s.recordError(report, rowNum, "failed to save transaction")
			continue
		}

		report.SuccessCount++
	}

	if report.SuccessCount == 0 && report.ErrorCount == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCSV, "CSV file contains no data rows")
	}

	return report, nil
}

func (s *importService) recordError(report *ImportReport, rowNum int, reason string) {
	report.ErrorCount++
	if len(report.Errors) < maxReportedErrors {
		report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %s", rowNum, reason))
	}
}
