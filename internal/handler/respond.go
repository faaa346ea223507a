package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"garrison/internal/logger"
	"garrison/internal/middleware"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, model.Envelope{Success: false, Message: msg})
}

func succeed(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, model.Envelope{Success: true, Message: msg})
}

// respondError maps service errors onto status codes. Anything unexpected is
// answered with 400 and the raw error text.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		status := http.StatusBadRequest
		if se.Kind == service.KindNotFound {
			status = http.StatusNotFound
		}
		fail(c, status, se.Message)
		return
	}
	logger.Error("request.failed", "method", c.Request.Method, "path", c.FullPath(),
		"request_id", c.GetString(middleware.CtxRequestID), "err", err)
	fail(c, http.StatusBadRequest, err.Error())
}

// paramID reads a numeric path parameter. Non-numeric ids cannot name a
// row, so they get the same 404 as unknown ones.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		fail(c, http.StatusNotFound, "Не найдено")
		return 0, false
	}
	return id, true
}

// bindJSON decodes an optional JSON body. A missing or blank body leaves dst
// at its zero value.
func bindJSON(c *gin.Context, dst any) bool {
	body, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := binding.JSON.BindBody(body, dst); err != nil {
		fail(c, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
