package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/logger"
	"github.com/surajacharya12/E-commerce-web-sub000/middleware"
	"github.com/surajacharya12/E-commerce-web-sub000/session"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError attaches err to the request and writes its shopper-facing body.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	_ = c.Error(err)
	if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindNetwork {
		logger.Error(c, "request failed", err)
	}
	c.AbortWithStatusJSON(appErr.Code, appErr.Body())
}

func invalidBody(c *gin.Context) {
	respondError(c, apperrors.Validation("", "Invalid request body"))
}

// currentSession returns the caller's session or writes an error.
func currentSession(c *gin.Context) (*session.Session, bool) {
	s, err := middleware.CurrentSession(c)
	if err != nil {
		respondError(c, apperrors.Internal("Could not load your session", err))
		return nil, false
	}
	return s, true
}

// currentUser returns the signed-in user's id or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.Unauthorized(""))
		return "", false
	}
	return userID, true
}
