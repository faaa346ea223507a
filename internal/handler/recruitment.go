package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"garrison/internal/logger"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

const maxMultipartMemory = 8 << 20

type RecruitmentHandler struct {
	recruitment *service.RecruitmentService
}

func NewRecruitmentHandler(recruitment *service.RecruitmentService) *RecruitmentHandler {
	return &RecruitmentHandler{recruitment: recruitment}
}

// POST /recruitment/submit  body: JSON object or form fields
func (h *RecruitmentHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMultipartMemory)
	sub, err := readSubmission(c.Request)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "Слишком большой запрос")
			return
		}
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.recruitment.Submit(c.Request.Context(), sub)
	if err != nil {
		logger.Warn("recruitment.rejected", "username", sub["username"], "err", err)
		respondError(c, err)
		return
	}
	logger.Info("recruitment.submitted", "id", res.ID, "username", res.Username)
	c.JSON(http.StatusOK, res)
}

// readSubmission accepts a JSON object body and falls back to form
// decoding for anything else. JSON values are flattened to strings; null,
// false, zero and empty arrays or objects count as empty.
func readSubmission(r *http.Request) (service.Submission, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil && obj != nil {
		sub := make(service.Submission, len(obj))
		for k, v := range obj {
			sub[k] = stringify(v)
		}
		return sub, nil
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	sub := make(service.Submission, len(r.PostForm))
	for k := range r.PostForm {
		sub[k] = r.PostForm.Get(k)
	}
	return sub, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if !x {
			return ""
		}
		return "true"
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		if len(x) == 0 {
			return ""
		}
	case map[string]any:
		if len(x) == 0 {
			return ""
		}
	}
	b, _ := json.Marshal(v)
	return string(b)
}
