package handlers

import (
	"errors"
	"net/http"
	"strings"

	"vedic_counter/internal/models"
	"vedic_counter/internal/service"

	"github.com/gin-gonic/gin"
)

// actorKey holds the models.Actor of an authenticated request in the gin context.
const actorKey = "actor"

var (
	errMissingAuthHeader = errors.New("missing Authorization header")
	errAuthHeaderFormat  = errors.New("invalid Authorization header format")
)

// bearerToken extracts the token from "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errAuthHeaderFormat
	}
	return token, nil
}

// authMiddleware resolves the bearer token to the acting user and attaches it
// to both the gin context and the request context, where the event log picks
// it up.
func (h *Handler) authMiddleware(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	actor, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(actorKey, actor)
	c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
	c.Next()
}

// currentActor returns the user set by authMiddleware.
func currentActor(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	a, ok := v.(models.Actor)
	return a, ok
}

// @Summary      Current user
// @Description  Returns the user the bearer token was issued to.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Actor
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, actor)
}
