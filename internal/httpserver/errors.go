package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"shoplab/internal/domain"
	authsvc "shoplab/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP responses. Anything unrecognised is
// logged with the request id and reported as an opaque 500.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	status, msg := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Printf("request_id=%s %s %s error=%v", requestID(c), c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, authsvc.ErrInvalidToken), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, authsvc.ErrInvalidResetToken):
		return http.StatusBadRequest, authsvc.ErrInvalidResetToken.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, detail(err, domain.ErrValidation)
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, domain.ErrEmptyCart.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, alreadyExistsMessage(err)
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict, please retry"
	}
	return http.StatusInternalServerError, "internal error"
}

// detail strips the sentinel prefix from "sentinel: message" errors.
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

// alreadyExistsMessage avoids echoing constraint names back to clients.
func alreadyExistsMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username"):
		return "username already taken"
	case strings.Contains(msg, "email"):
		return "email already registered"
	case strings.Contains(msg, "reviews"), strings.Contains(msg, "already reviewed"):
		return "you have already reviewed this product"
	case strings.Contains(msg, "products_name"):
		return "a product with this name already exists"
	}
	return "already exists"
}
