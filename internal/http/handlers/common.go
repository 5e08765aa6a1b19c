package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tiketku/internal/http/middleware"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "body kosong", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
		return false
	}
	return true
}

// idParam parses a positive numeric path parameter, responding 400 on failure.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "parameter "+name+" tidak valid", nil)
		return 0, false
	}
	return id, true
}

// intQuery reads an integer query parameter with a default.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
