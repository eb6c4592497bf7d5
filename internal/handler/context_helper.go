package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdityaXD007/LearnXchange/internal/middleware"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
	"github.com/AdityaXD007/LearnXchange/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// actorID returns the caller's user id, writing a 401 when absent.
func actorID(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func bindError(err error, what string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+what+" payload")
}
