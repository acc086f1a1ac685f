package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errPauseTimer  = "failed to pause timer"
	errResumeTimer = "failed to resume timer"
)

// @Summary      Pause timer
// @Tags         timer
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/pause [post]
// @Security     BearerAuth
func (h *Handler) pauseTimer(c *gin.Context) {
	view, err := h.services.Timer.Pause(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errPauseTimer, "timer_pause_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusPaused, view)
}

// @Summary      Resume timer
// @Tags         timer
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/resume [post]
// @Security     BearerAuth
func (h *Handler) resumeTimer(c *gin.Context) {
	view, err := h.services.Timer.Resume(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errResumeTimer, "timer_resume_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusResumed, view)
}
