// internal/handlers/apartment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/residence-backend/internal/i18n"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/services"
	"github.com/javajoker/residence-backend/internal/utils"
)

type ApartmentHandler struct {
	apartmentService *services.ApartmentService
}

func NewApartmentHandler(apartmentService *services.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{
		apartmentService: apartmentService,
	}
}

// GET /apartments/listings?type=rent|buy
func (h *ApartmentHandler) ListListings(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	listingType := models.LeaseRequestType(c.DefaultQuery("type", string(models.LeaseRequestTypeRent)))

	apartments, err := h.apartmentService.ListListings(c.Request.Context(), listingType)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyApartmentListings),
		"type":       listingType,
		"apartments": apartments,
	})
}
