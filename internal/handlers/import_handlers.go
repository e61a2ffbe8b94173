package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"moldmes/internal/common"
	"moldmes/internal/importer"
	"moldmes/internal/models"

	"github.com/labstack/echo/v4"
)

// TreeImporter applies an uploaded tree table to the BOM.
type TreeImporter interface {
	Import(ctx context.Context, src importer.Source) (*models.TreeImportResult, error)
}

var importExtensions = map[string]bool{
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
}

// ImportHandlers handles tree table uploads
type ImportHandlers struct {
	importer TreeImporter
	maxBytes int64
}

// NewImportHandlers creates a new import handlers instance. Payloads above
// maxBytes are rejected with 413.
func NewImportHandlers(importer TreeImporter, maxBytes int64) *ImportHandlers {
	return &ImportHandlers{importer: importer, maxBytes: maxBytes}
}

// ImportTree handles POST /bom/import_tree. The table may arrive as JSON
// {"tsv": "..."}, as a raw text body, or as a multipart "file" field.
func (h *ImportHandlers) ImportTree(c echo.Context) error {
	src, err := h.readSource(c)
	if err != nil {
		return err
	}

	result, err := h.importer.Import(c.Request().Context(), src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ImportHandlers) readSource(c echo.Context) (importer.Source, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		return h.readMultipart(c)

	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		var body struct {
			TSV string `json:"tsv"`
		}
		payload, err := h.readLimited(c.Request().Body)
		if err != nil {
			return importer.Source{}, err
		}
		if err := json.Unmarshal(payload, &body); err != nil {
			return importer.Source{}, common.Validationf("invalid request body")
		}
		if strings.TrimSpace(body.TSV) == "" {
			return importer.Source{}, common.Validationf("tsv is required")
		}
		return importer.Source{
			Filename:    "import.tsv",
			ContentType: "text/tab-separated-values",
			Payload:     []byte(body.TSV),
		}, nil

	default:
		payload, err := h.readLimited(c.Request().Body)
		if err != nil {
			return importer.Source{}, err
		}
		if len(payload) == 0 {
			return importer.Source{}, common.Validationf("request body is empty")
		}
		return importer.Source{
			Filename:    "import.tsv",
			ContentType: "text/tab-separated-values",
			Payload:     payload,
		}, nil
	}
}

func (h *ImportHandlers) readMultipart(c echo.Context) (importer.Source, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return importer.Source{}, common.Validationf("file is required")
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		return importer.Source{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "import file is too large")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !importExtensions[ext] {
		return importer.Source{}, common.Validationf("unsupported file type %q, expected .tsv, .txt or .xlsx", ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return importer.Source{}, err
	}
	defer file.Close()

	payload, err := h.readLimited(file)
	if err != nil {
		return importer.Source{}, err
	}

	return importer.Source{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Payload:     payload,
	}, nil
}

func (h *ImportHandlers) readLimited(r io.Reader) ([]byte, error) {
	if h.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	payload, err := io.ReadAll(io.LimitReader(r, h.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > h.maxBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "import payload is too large")
	}
	return payload, nil
}
