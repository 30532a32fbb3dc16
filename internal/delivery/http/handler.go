package http

import (
	"context"
	"errors"
	"image"
	"net/http"

	// Frame uploads arrive as PNG or JPEG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/scanner"
	"github.com/nutriscan/backend/internal/usecase"
)

// maxFrameBytes bounds a single uploaded frame.
const maxFrameBytes = 8 << 20

// ProductResolver is the slice of the resolver the handlers need.
type ProductResolver interface {
	Resolve(ctx context.Context, barcode string) (*domain.ScannedProduct, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver ProductResolver
	scaler   *usecase.QuantityScaler
	cache    domain.ProductCache

	// newReader constructs a barcode reader per request. Readers are not
	// safe for concurrent use, so requests never share one.
	newReader func() scanner.SymbolReader
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver ProductResolver, scaler *usecase.QuantityScaler, cache domain.ProductCache, newReader func() scanner.SymbolReader) *Handler {
	return &Handler{
		resolver:  resolver,
		scaler:    scaler,
		cache:     cache,
		newReader: newReader,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutriscan-backend",
		"version": "1.0.0",
	})
}

// GetProduct resolves a barcode to a nutrition record.
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	product, err := h.resolver.Resolve(c.Request.Context(), barcode)
	if err != nil {
		h.writeResolveError(c, barcode, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DecodeScan decodes a single uploaded camera frame and resolves the barcode
// it contains. Serves as the server-side fallback when the client cannot run
// a live decoder.
func (h *Handler) DecodeScan(c *gin.Context) {
	img, _, err := image.Decode(http.MaxBytesReader(c.Writer, c.Request.Body, maxFrameBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a PNG or JPEG image"})
		return
	}

	barcode, err := h.newReader().Decode(img)
	if err != nil {
		if errors.Is(err, domain.ErrNoBarcodeInFrame) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no barcode found in image"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.resolver.Resolve(c.Request.Context(), barcode)
	if err != nil {
		h.writeResolveError(c, barcode, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ScaleRequest asks for a base profile scaled to a target quantity and unit.
type ScaleRequest struct {
	Profile  domain.BaseNutritionProfile `json:"profile" binding:"required"`
	Quantity float64                     `json:"quantity"`
	Unit     string                      `json:"unit"`
}

// ScaleNutrition scales a base nutrition profile to a target quantity/unit.
func (h *Handler) ScaleNutrition(c *gin.Context) {
	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.scaler.Scale(&req.Profile, req.Quantity, req.Unit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidServingSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidServingSize.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// SetBaseRequest recovers a base profile from displayed, already-scaled values.
type SetBaseRequest struct {
	Displayed domain.NutritionRecord `json:"displayed" binding:"required"`
	Quantity  float64                `json:"quantity"`
	Unit      string                 `json:"unit"`
}

// SetBaseProfile divides out the current multiplier from displayed values so
// the caller can redefine its scaling reference point.
func (h *Handler) SetBaseProfile(c *gin.Context) {
	var req SetBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.scaler.SetAsBase(&req.Displayed, req.Quantity, req.Unit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidServingSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidServingSize.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// PurgeCache deletes all expired cache entries.
func (h *Handler) PurgeCache(c *gin.Context) {
	purged, err := h.cache.PurgeExpired(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache purge failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

// writeResolveError maps resolver errors to HTTP responses. Not-found keeps
// a manual-entry escape hatch distinct from the generic retry prompt of a
// transport failure.
func (h *Handler) writeResolveError(c *gin.Context, barcode string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":       "product not found",
			"barcode":     barcode,
			"manualEntry": true,
		})
	case errors.Is(err, domain.ErrLookupFailed):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "product lookup failed",
			"retry": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
