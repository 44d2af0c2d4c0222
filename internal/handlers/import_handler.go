package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "opam/internal/errors"
	"opam/internal/services"
)

// maxImportFileSize caps uploaded CSV files at 10 MiB.
const maxImportFileSize = 10 << 20

// ImportHandler handles batch CSV import requests.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportTransactions handles a CSV file upload
// @Summary     Import transactions from CSV
// @Description Upload a CSV file of transactions. Rows are processed in order; invalid rows are skipped and reported, valid rows are scored and saved.
// @Tags        transactions
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "CSV file with date, amount and category columns"
// @Success     200 {object} services.ImportReport "Import report"
// @Failure     400 {object} ErrorResponse "Missing, oversized, or unreadable file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/import [post]
func (h *ImportHandler) ImportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "a CSV file is required in the 'file' field"))
		return
	}
	if fileHeader.Size > maxImportFileSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file exceeds the 10MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	report, err := h.importService.ImportCSV(userID, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
