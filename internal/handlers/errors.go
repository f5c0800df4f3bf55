// internal/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/residence-backend/internal/i18n"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/services"
	"github.com/javajoker/residence-backend/internal/utils"
)

// respondError writes the envelope matching err's kind.
func respondError(c *gin.Context, err error) {
	var serviceErr *services.ServiceError
	switch {
	case errors.As(err, &serviceErr):
		switch serviceErr.Kind {
		case services.KindValidation:
			if details, ok := serviceErr.Details.([]utils.ValidationError); ok {
				utils.ValidationErrorResponse(c, serviceErr.Message, details)
				return
			}
			utils.ErrorResponse(c, http.StatusBadRequest, string(services.KindValidation), serviceErr.Message, serviceErr.Details)
		case services.KindNotFound:
			utils.NotFoundResponse(c, "", serviceErr.Message)
		case services.KindForbidden:
			utils.ForbiddenResponse(c, serviceErr.Message)
		case services.KindInvalidState:
			utils.InvalidStateResponse(c, serviceErr.Message)
		case services.KindConflict:
			utils.ConflictResponse(c, serviceErr.Message)
		default:
			utils.InternalErrorResponse(c, "")
		}
	case errors.Is(err, context.DeadlineExceeded):
		utils.GatewayTimeoutResponse(c)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// actorFromContext builds the caller from verified token claims. It returns
// nil for anonymous requests.
func actorFromContext(c *gin.Context) *services.Actor {
	claims, ok := utils.GetClaimsFromContext(c)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil
	}
	return services.NewActor(id, role, claims.Email, claims.Name, claims.Phone)
}

func requireActor(c *gin.Context) (*services.Actor, bool) {
	actor := actorFromContext(c)
	if actor == nil {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	return actor, true
}

func parseIDParam(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), key), nil)
		return uuid.Nil, false
	}
	return id, true
}
