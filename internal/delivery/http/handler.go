package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/spreadsheet"
	"github.com/lojatech/catalog-import/internal/usecase"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// defaultMaxInputBytes caps pasted text and uploaded workbooks
const defaultMaxInputBytes = 2 << 20

// statusPollInterval paces the import event stream
var statusPollInterval = 250 * time.Millisecond

// Handler holds dependencies for HTTP handlers
type Handler struct {
	parser        *usecase.ParseService
	imports       *usecase.ImportService
	catalog       *usecase.CatalogService
	maxInputBytes int64
}

// NewHandler creates a new HTTP handler. maxInputBytes <= 0 uses 2 MiB.
func NewHandler(parser *usecase.ParseService, imports *usecase.ImportService, catalog *usecase.CatalogService, maxInputBytes int64) *Handler {
	if maxInputBytes <= 0 {
		maxInputBytes = defaultMaxInputBytes
	}
	return &Handler{parser: parser, imports: imports, catalog: catalog, maxInputBytes: maxInputBytes}
}

// ConfigRequest carries the import options of a parse request
type ConfigRequest struct {
	DefaultCategory    string          `json:"defaultCategory" form:"defaultCategory"`
	AutoDetectCategory bool            `json:"autoDetectCategory" form:"autoDetectCategory"`
	ProfitMargin       decimal.Decimal `json:"profitMargin" form:"-"`
	Tags               string          `json:"tags" form:"tags"`
	RibbonLabel        string          `json:"ribbonLabel" form:"ribbonLabel"`
}

func (r ConfigRequest) toDomain() domain.ImportConfiguration {
	return domain.ImportConfiguration{
		DefaultCategory:    strings.TrimSpace(r.DefaultCategory),
		AutoDetectCategory: r.AutoDetectCategory,
		ProfitMargin:       r.ProfitMargin,
		DefaultTags:        domain.ParseTagList(r.Tags),
		RibbonLabel:        strings.TrimSpace(r.RibbonLabel),
	}
}

// ParseRequest is the body of a text parse request
type ParseRequest struct {
	Text   string        `json:"text"`
	Config ConfigRequest `json:"config"`
}

// ParseResponse lists parsed records for review
type ParseResponse struct {
	Records []domain.ParsedProductRecord `json:"records"`
	Total   int                          `json:"total"`
	Valid   int                          `json:"valid"`
	Invalid int                          `json:"invalid"`
}

// ImportRequest is the body of a commit request
type ImportRequest struct {
	Records  []domain.ParsedProductRecord `json:"records"`
	Selected []int                        `json:"selected"`
}

// DeleteRequest lists products to remove
type DeleteRequest struct {
	IDs []string `json:"ids"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	status := h.imports.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "catalog-import",
		"version": "1.0.0",
		"import":  status.State,
	})
}

// ParseText parses pasted catalog text
func (h *Handler) ParseText(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxInputBytes)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "input too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records := h.parser.Parse(req.Text, req.Config.toDomain())
	c.JSON(http.StatusOK, newParseResponse(records))
}

// ParseSpreadsheet parses the product sheet of an uploaded xlsx workbook
func (h *Handler) ParseSpreadsheet(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxInputBytes)

	var cfg ConfigRequest
	if err := c.ShouldBind(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form fields"})
		return
	}
	if margin := c.PostForm("profitMargin"); margin != "" {
		m, err := decimal.NewFromString(strings.ReplaceAll(margin, ",", "."))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profitMargin"})
			return
		}
		cfg.ProfitMargin = m
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()

	rows, err := spreadsheet.ReadRows(io.LimitReader(f, h.maxInputBytes))
	if err != nil {
		respondError(c, err)
		return
	}

	records := h.parser.ParseRows(rows, cfg.toDomain())
	c.JSON(http.StatusOK, newParseResponse(records))
}

// StartImport commits reviewed records in the background
func (h *Handler) StartImport(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	run, err := h.imports.Start(c.Request.Context(), domain.ImportBatch{Records: req.Records, Selected: req.Selected})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"state": domain.ImportRunning, "total": run.Total()})
}

// ImportStatus reports the orchestrator state and progress
func (h *Handler) ImportStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.imports.Status())
}

// ImportEvents streams progress as server-sent events until the running
// batch finishes. With no batch running it sends a single done event.
// The stream samples Status every statusPollInterval, so progress events
// rise strictly but may skip values; ImportRun.Progress carries every one.
func (h *Handler) ImportEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	lastProcessed := -1
	for {
		status := h.imports.Status()
		if status.State != domain.ImportRunning {
			c.SSEvent("done", status)
			c.Writer.Flush()
			return
		}

		if status.Processed != lastProcessed {
			lastProcessed = status.Processed
			c.SSEvent("progress", domain.ImportProgress{Processed: status.Processed, Total: status.Total})
			c.Writer.Flush()
		}

		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// ListProducts returns the catalog
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// DeleteProducts removes products by id
func (h *Handler) DeleteProducts(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	n, err := h.catalog.Delete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// CategoryRules lists the keyword rules used for category detection
func (h *Handler) CategoryRules(c *gin.Context) {
	categories := h.parser.Categories()
	c.JSON(http.StatusOK, gin.H{"rules": categories.Rules(), "fallback": categories.Fallback()})
}

func newParseResponse(records []domain.ParsedProductRecord) ParseResponse {
	resp := ParseResponse{Records: records, Total: len(records)}
	for _, r := range records {
		if r.IsValid {
			resp.Valid++
		}
	}
	resp.Invalid = resp.Total - resp.Valid
	return resp
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrImportBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnsupportedSpreadsheet):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
