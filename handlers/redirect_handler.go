package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go-url-shortener/types"
	"go.uber.org/zap"
)

// RedirectURL handles the redirection from a short code to its long URL.
// The stored URL is sent back unchanged in the Location header.
func (h *URLHandler) RedirectURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	shortCode := c.Param(shortCodeParam)
	if shortCode == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Message: shortCodeNotProvided})
		return
	}

	longURL, err := h.service.Resolve(ctx, shortCode)
	if err != nil {
		h.handleError(c, err, shortCode)
		return
	}

	h.logger.Debug("Redirecting",
		zap.String("shortCode", shortCode),
		zap.String("longURL", longURL),
		zap.String("ip", c.ClientIP()))
	c.Header("Location", longURL)
	c.Status(http.StatusMovedPermanently)
}

// fmtStack renders an error with the stack trace attached by pkg/errors.
func fmtStack(err error) string {
	return fmt.Sprintf("%+v", err)
}
