package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/coach/internal/domain"
)

// StartInterview creates a session and returns the opening question.
// POST /api/start_interview
func (h *Handler) StartInterview(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.StartInterviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.StartInterview(ctx, req)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// ProcessAnswer records an answer and returns the next question.
// POST /api/process_answer
func (h *Handler) ProcessAnswer(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.SubmitAnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.SubmitAnswer(ctx, req)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetFeedback evaluates a finished interview.
// GET /api/get_feedback/:session_id
func (h *Handler) GetFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	report, err := h.service.GetFeedback(ctx, sessionID)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report)
}

// GetSession returns a session and its progress.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	view, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, view)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingSession),
		errors.Is(err, domain.ErrInvalidStep),
		errors.Is(err, domain.ErrInterviewIncomplete):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownSession),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
