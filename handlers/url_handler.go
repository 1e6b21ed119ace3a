// Package handlers provides HTTP request handlers for the URL shortener service.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go-url-shortener/config"
	"go-url-shortener/services"
	"go-url-shortener/types"
	"go-url-shortener/utils"
	"go.uber.org/zap"
)

const (
	missingRequestBody   = "Missing request body"
	invalidRequestBody   = "Invalid request body"
	urlNotProvided       = "URL not provided"
	shortCodeNotProvided = "Short code not provided"
	shortCodeNotFound    = "Short code not found"
	internalServerError  = "Internal Server Error"
	shortCodeParam       = "short_code"
)

// URLHandlerInterface defines the methods that a URL handler should implement.
type URLHandlerInterface interface {
	CreateShortURL(c *gin.Context)
	GetURLData(c *gin.Context)
	RedirectURL(c *gin.Context)
	HealthCheck(c *gin.Context)
}

// URLHandler struct holds the dependencies for handling URL-related operations.
type URLHandler struct {
	service  services.URLService
	validate *validator.Validate
	config   *config.Config
	logger   *zap.Logger
}

// NewURLHandler creates and returns a new URLHandler instance.
//
// Parameters:
//   - ctx: A context.Context for cancellation during initialization.
//   - service: The URLService that performs create and resolve.
//   - cfg: Application settings; BaseURL and RequestTimeout are used here.
//   - logger: Logger for request failures.
//
// Returns:
//   - The handler and an error if a dependency is missing or ctx is done.
func NewURLHandler(ctx context.Context, service services.URLService, cfg *config.Config, logger *zap.Logger) (URLHandlerInterface, error) {
	if service == nil {
		return nil, errors.New("service cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	handler := &URLHandler{
		service:  service,
		validate: validator.New(),
		config:   cfg,
		logger:   logger.With(zap.String("component", "URLHandler")),
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return handler, nil
}

// handleError maps a service error to its status code and JSON body.
func (h *URLHandler) handleError(c *gin.Context, err error, shortCode string) {
	var storeErr *services.StoreError

	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		h.logger.Info("Short code not found", zap.String("shortCode", shortCode))
		c.JSON(http.StatusNotFound, types.ErrorResponse{Message: shortCodeNotFound})
	case errors.Is(err, services.ErrExhaustedRetries):
		h.logger.Error("Could not allocate a short code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: internalServerError, Error: err.Error()})
	case errors.As(err, &storeErr):
		h.logger.Error("Store failure",
			zap.String("op", storeErr.Op),
			zap.String("shortCode", shortCode),
			zap.String("cause", fmtStack(storeErr.Err)))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: internalServerError, Error: err.Error()})
	default:
		h.logger.Error("Unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Message: internalServerError, Error: err.Error()})
	}
}

// CreateShortURL handles the creation of a new shortened URL.
func (h *URLHandler) CreateShortURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: missingRequestBody})
		return
	}

	var input types.CreateURLRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: missingRequestBody})
			return
		}
		h.logger.Warn("Error decoding request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: invalidRequestBody})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: urlNotProvided})
		return
	}

	shortCode, err := h.service.Create(ctx, input.URL)
	if err != nil {
		h.handleError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, types.CreateURLResponse{
		LongURL:  input.URL,
		ShortURL: utils.ShortURL(h.config.BaseURL, shortCode),
	})
}

// GetURLData returns the stored record for a short code as JSON.
func (h *URLHandler) GetURLData(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	shortCode := c.Param(shortCodeParam)
	if shortCode == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: shortCodeNotProvided})
		return
	}

	mapping, err := h.service.Describe(ctx, shortCode)
	if err != nil {
		h.handleError(c, err, shortCode)
		return
	}

	c.JSON(http.StatusOK, types.URLInfoResponse{
		ShortCode: mapping.ShortCode,
		LongURL:   mapping.LongURL,
		ShortURL:  utils.ShortURL(h.config.BaseURL, mapping.ShortCode),
		CreatedAt: mapping.CreatedAt,
	})
}
