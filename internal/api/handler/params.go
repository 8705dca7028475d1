package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/response"
)

// parseID reads a positive integer path parameter. On failure it writes a 400
// and returns false; the caller should return immediately.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindError reports a request that failed binding or validation.
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid parameters", err.Error())
}
