package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"vedic_counter/internal/models"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK             = "ok"
	statusIncremented    = "incremented"
	statusDecremented    = "decremented"
	statusUnchanged      = "unchanged"
	statusStartSet       = "start_set"
	statusReset          = "reset"
	statusResetCancelled = "reset_cancelled"
	statusPaused         = "paused"
	statusResumed        = "resumed"

	errIncrement       = "failed to increment"
	errDecrement       = "failed to decrement"
	errSetStart        = "failed to set starting number"
	errReset           = "failed to reset"
	errGetState        = "failed to load state"
	errInvalidBodyPref = "invalid body: "
)

var errStartingNumberType = errors.New("starting_number must be a string or a number")

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// logByActor records a destructive change together with the user who made it.
func (h *Handler) logByActor(c *gin.Context, key string, kv ...interface{}) {
	if h.log == nil {
		return
	}
	if a, ok := currentActor(c); ok {
		kv = append(kv, "user_id", a.UserID, "username", a.Username)
	}
	h.log.Infow(key, kv...)
}

func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, view models.CounterView) {
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"state":  view,
	})
}

// StartingNumberRequest is the setStartingNumber payload. The value may be a
// JSON string or number; non-numeric input counts as 0.
type StartingNumberRequest struct {
	StartingNumber json.RawMessage `json:"starting_number" swaggertype:"string" example:"50"`
}

// numberText writes n in plain decimal so 1e3 reads as "1000", not "1e3".
func numberText(n json.Number) string {
	if _, err := n.Int64(); err == nil {
		return n.String()
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// rawInput returns the text a user would have typed for the value.
func (r StartingNumberRequest) rawInput() (string, error) {
	raw := bytes.TrimSpace(r.StartingNumber)
	if len(raw) == 0 {
		return "", errors.New("starting_number is required")
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return numberText(n), nil
	case 'n':
		// null behaves like an empty field
		return "", nil
	default:
		return "", errStartingNumberType
	}
}

// StatusResponse documents the body returned by counter and timer mutations.
type StatusResponse struct {
	Status string             `json:"status" example:"incremented"`
	State  models.CounterView `json:"state"`
}

// ResetRequest confirms a reset. Anything but confirm=true cancels it.
type ResetRequest struct {
	Confirm bool `json:"confirm" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get counter state
// @Tags         counter
// @Produce      json
// @Success      200  {object}  models.CounterView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/counter/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	view, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "counter_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Increment
// @Description  Adds one. Every 108 counts past the starting number completes a cycle. Starts the timer when stopped.
// @Tags         counter
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/counter/increment [post]
// @Security     BearerAuth
func (h *Handler) increment(c *gin.Context) {
	view, err := h.services.Counter.Increment(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errIncrement, "counter_increment_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusIncremented, view)
}

// @Summary      Decrement
// @Description  Subtracts one. At zero nothing changes and status is "unchanged".
// @Tags         counter
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/counter/decrement [post]
// @Security     BearerAuth
func (h *Handler) decrement(c *gin.Context) {
	view, changed, err := h.services.Counter.Decrement(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDecrement, "counter_decrement_failed", err)
		return
	}
	status := statusDecremented
	if !changed {
		status = statusUnchanged
	}
	h.respondWithStatusAndState(c, status, view)
}

// @Summary      Set starting number
// @Description  Restarts counting from the given number and clears cycle progress. Non-numeric input counts as 0.
// @Tags         counter
// @Accept       json
// @Produce      json
// @Param        body  body   StartingNumberRequest  true  "Starting number payload"
// @Success      200   {object}  StatusResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/counter/start [post]
// @Security     BearerAuth
func (h *Handler) setStartingNumber(c *gin.Context) {
	var req StartingNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	raw, err := req.rawInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	view, err := h.services.Counter.SetStartingNumber(c.Request.Context(), raw)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetStart, "counter_set_start_failed", err, "input", raw)
		return
	}
	h.logByActor(c, "counter_start_set", "starting_number", view.StartingNumber)
	h.respondWithStatusAndState(c, statusStartSet, view)
}

// @Summary      Reset counter and timer
// @Description  Requires {"confirm":true}. Without it nothing changes and status is "reset_cancelled".
// @Tags         counter
// @Accept       json
// @Produce      json
// @Param        body  body   ResetRequest  false  "Confirmation"
// @Success      200   {object}  StatusResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/counter/reset [post]
// @Security     BearerAuth
func (h *Handler) reset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	view, done, err := h.services.Counter.Reset(c.Request.Context(), req.Confirm)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReset, "counter_reset_failed", err)
		return
	}
	status := statusReset
	if !done {
		status = statusResetCancelled
	} else {
		h.logByActor(c, "counter_reset", "starting_number", view.StartingNumber)
	}
	h.respondWithStatusAndState(c, status, view)
}
