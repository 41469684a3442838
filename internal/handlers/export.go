package handlers

import (
	"fmt"
	"net/http"
	"time"

	"pinkcollar_backend/internal/export"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const exportGeneratedMessage = "CSV data generated successfully"

// writeExport отдает таблицу: json - записи для фронтенда, csv и xlsx - файл на скачивание
func writeExport(c *gin.Context, format, prefix, sheet string, table export.Table) {
	now := time.Now()

	switch format {
	case "csv":
		filename := export.Filename(prefix, "csv", now)
		setAttachmentHeaders(c, export.ContentTypeCSV, filename)
		if err := export.WriteCSV(c.Writer, table); err != nil {
			logger.CtxWithError(c.Request.Context(), "Failed to write CSV export", err, "filename", filename)
		}
	case "xlsx":
		filename := export.Filename(prefix, "xlsx", now)
		setAttachmentHeaders(c, export.ContentTypeXLSX, filename)
		if err := export.WriteXLSX(c.Writer, sheet, table); err != nil {
			logger.CtxWithError(c.Request.Context(), "Failed to write XLSX export", err, "filename", filename)
		}
	default:
		respondOK(c, exportGeneratedMessage, dto.ExportResponse{
			CSVData:  table.Records(),
			Filename: export.Filename(prefix, "csv", now),
		})
	}
}

func setAttachmentHeaders(c *gin.Context, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
}
