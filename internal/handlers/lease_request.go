// internal/handlers/lease_request.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/residence-backend/internal/i18n"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/repository"
	"github.com/javajoker/residence-backend/internal/services"
	"github.com/javajoker/residence-backend/internal/utils"
)

type LeaseRequestHandler struct {
	leaseService *services.LeaseService
}

func NewLeaseRequestHandler(leaseService *services.LeaseService) *LeaseRequestHandler {
	return &LeaseRequestHandler{
		leaseService: leaseService,
	}
}

// POST /lease-requests
func (h *LeaseRequestHandler) CreateLeaseRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.leaseService.CreateRequest(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyLeaseRequestCreated),
		"lease_request": request,
	})
}

// GET /lease-requests
func (h *LeaseRequestHandler) ListLeaseRequests(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filter := repository.LeaseRequestFilter{
		PaginationParams: params,
		Query:            c.Query("q"),
	}

	if status := c.Query("status"); status != "" {
		s := models.LeaseRequestStatus(status)
		filter.Status = &s
	}
	if requestType := c.Query("type"); requestType != "" {
		t := models.LeaseRequestType(requestType)
		filter.Type = &t
	}
	if apartmentIDStr := c.Query("apartment_id"); apartmentIDStr != "" {
		apartmentID, err := uuid.Parse(apartmentIDStr)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "apartment_id"), nil)
			return
		}
		filter.ApartmentID = &apartmentID
	}
	if requesterIDStr := c.Query("requester_id"); requesterIDStr != "" {
		requesterID, err := uuid.Parse(requesterIDStr)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "requester_id"), nil)
			return
		}
		filter.RequesterID = &requesterID
	}

	requests, total, err := h.leaseService.ListRequests(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(requests, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /lease-requests/:id
func (h *LeaseRequestHandler) GetLeaseRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, i18n.KeyLeaseRequestInvalidID)
	if !ok {
		return
	}

	request, err := h.leaseService.GetRequest(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// PUT /lease-requests/:id/owner-decision
func (h *LeaseRequestHandler) OwnerDecision(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, i18n.KeyLeaseRequestInvalidID)
	if !ok {
		return
	}

	var req services.LeaseDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.leaseService.OwnerDecision(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, decisionMessageKey(request.Status)),
		"lease_request": request,
	})
}

// PUT /lease-requests/:id/decision
func (h *LeaseRequestHandler) DecideLeaseRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, i18n.KeyLeaseRequestInvalidID)
	if !ok {
		return
	}

	var req services.LeaseDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.leaseService.DecideLeaseRequest(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, decisionMessageKey(request.Status)),
		"lease_request": request,
	})
}

// PUT /lease-requests/:id/cancel
func (h *LeaseRequestHandler) CancelLeaseRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, i18n.KeyLeaseRequestInvalidID)
	if !ok {
		return
	}

	request, err := h.leaseService.CancelLeaseRequest(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyLeaseRequestCancelled),
		"lease_request": request,
	})
}

func decisionMessageKey(status models.LeaseRequestStatus) string {
	switch status {
	case models.LeaseRequestStatusApproved:
		return i18n.KeyLeaseRequestApproved
	case models.LeaseRequestStatusPendingManager:
		return i18n.KeyLeaseRequestOwnerApproved
	default:
		return i18n.KeyLeaseRequestRejected
	}
}
