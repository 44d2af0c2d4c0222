package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"opam/internal/database"
	"opam/internal/logger"
	"opam/internal/models"
	"opam/internal/normalize"

	"gorm.io/gorm"
)

// defaultBatchSize is how many normalized rows are buffered before a
// single multi-row insert is issued.
const defaultBatchSize = 5000

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Bulk import error: %v", err)
	}
}

func run() error {
	var (
		filePath  = flag.String("file", "", "path to the CSV file to import")
		userID    = flag.String("user", "", "ID of the user to import transactions for")
		batchSize = flag.Int("batch", defaultBatchSize, "rows per insert batch")
	)
	flag.Parse()

	if *filePath == "" || *userID == "" {
		return fmt.Errorf("usage: bulkimport -file <statement.csv> -user <user-id> [-batch N]")
	}
	if *batchSize < 1 {
		return fmt.Errorf("batch size must be at least 1")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	db := dbManager.DB()

	var user models.User
	if err := db.Where("id = ?", *userID).First(&user).Error; err != nil {
		return fmt.Errorf("user %s not found: %w", *userID, err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *filePath, err)
	}
	defer file.Close()

	return importFile(db, file, user.ID, *batchSize)
}

// importFile streams the CSV through the normalizer and inserts rows in
// batches. Fraud scoring is skipped: historical statements would poison
// the running category averages if scored against a partial history, so
// every bulk-imported row is stored at the default risk level.
func importFile(db *gorm.DB, r io.Reader, userID string, batchSize int) error {
	log := logger.Get()
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	batch := make([]models.Transaction, 0, batchSize)
	var imported, skipped int

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.Create(&batch).Error; err != nil {
			return fmt.Errorf("batch insert failed after %d imported rows: %w", imported, err)
		}
		imported += len(batch)
		log.Infow("checkpoint", "imported", imported, "skipped", skipped, "elapsed", time.Since(start).String())
		batch = batch[:0]
		return nil
	}

	for i := 0; ; i++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum := i + 2
		if err != nil {
			skipped++
			log.Warnw("skipping malformed row", "row", rowNum, "error", err.Error())
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
			skipped++
			log.Warnw("skipping invalid row", "row", rowNum, "error", err.Error())
			continue
		}

		date, err := time.Parse(normalize.DateLayout, record.Date)
		if err != nil {
			skipped++
			log.Warnw("skipping row with invalid date", "row", rowNum)
			continue
		}

		batch = append(batch, models.Transaction{
			UserID:        userID,
			Amount:        record.Amount,
			Category:      record.Category,
			Merchant:      record.Merchant,
			Description:   record.Description,
			PaymentMethod: record.PaymentMethod,
			Date:          date,
			Recurring:     record.Recurring,
			RiskLevel:     models.RiskLevelLow,
		})

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	log.Infow("bulk import complete",
		"imported", imported,
		"skipped", skipped,
		"elapsed", time.Since(start).String(),
	)
	return nil
}
