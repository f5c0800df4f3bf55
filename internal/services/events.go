// internal/services/events.go
package services

import (
	"fmt"

	"github.com/javajoker/residence-backend/internal/models"
)

func apartmentCode(apartment *models.Apartment) string {
	if apartment == nil {
		return ""
	}
	return apartment.Code
}

func creationEvents(request *models.LeaseRequest, apartment *models.Apartment) []Event {
	var events []Event

	if request.IsGuest() {
		events = append(events, Event{
			Type:           EventGuestSubmitted,
			Title:          "New Guest Request",
			Message:        fmt.Sprintf("%s (%s) submitted a %s request for apartment %s", request.ContactName, request.ContactEmail, request.Type, apartment.Code),
			Priority:       "medium",
			LeaseRequestID: request.ID,
			Data: map[string]interface{}{
				"apartment_code": apartment.Code,
				"type":           request.Type,
				"contact_email":  request.ContactEmail,
				"contact_phone":  request.ContactPhone,
			},
		})
	}

	if request.Status == models.LeaseRequestStatusPendingOwner {
		events = append(events, Event{
			Type:           EventOwnerReview,
			Title:          "Rental Request Awaiting Your Review",
			Message:        fmt.Sprintf("A rental request for apartment %s is waiting for your decision", apartment.Code),
			Priority:       "high",
			RecipientID:    apartment.OwnerID,
			LeaseRequestID: request.ID,
			Data: map[string]interface{}{
				"apartment_code": apartment.Code,
			},
		})
	}

	return events
}

// decisionEvent tells the requester (or the management queue for guests)
// where the request ended up after a gate.
func decisionEvent(request *models.LeaseRequest, apartment *models.Apartment, gate string) Event {
	event := Event{
		Priority:       "medium",
		RecipientID:    request.RequesterID,
		LeaseRequestID: request.ID,
		Data: map[string]interface{}{
			"apartment_code": apartmentCode(apartment),
			"status":         request.Status,
			"gate":           gate,
			"contact_email":  request.ContactEmail,
		},
	}

	switch request.Status {
	case models.LeaseRequestStatusPendingManager:
		event.Type = EventOwnerApproved
		event.Title = "Request Forwarded To Management"
		event.Message = fmt.Sprintf("The owner of apartment %s accepted the request; it now awaits a manager", apartmentCode(apartment))
		event.RecipientID = nil
	case models.LeaseRequestStatusApproved:
		event.Type = EventApproved
		event.Title = "Request Approved"
		event.Message = fmt.Sprintf("Your %s request for apartment %s was approved", request.Type, apartmentCode(apartment))
		event.Priority = "high"
	default:
		event.Type = EventRejected
		event.Title = "Request Rejected"
		event.Message = fmt.Sprintf("Your %s request for apartment %s was rejected", request.Type, apartmentCode(apartment))
		if request.DecisionNote != "" {
			event.Data["reason"] = request.DecisionNote
		}
	}

	return event
}

func accountIssuedEvent(request *models.LeaseRequest, user *models.User, apartment *models.Apartment) Event {
	return Event{
		Type:           EventGuestAccountIssued,
		Title:          "Account Created",
		Message:        fmt.Sprintf("An account for %s was created on approval of apartment %s", user.Email, apartment.Code),
		Priority:       "medium",
		RecipientID:    &user.ID,
		LeaseRequestID: request.ID,
		Data: map[string]interface{}{
			"email":          user.Email,
			"apartment_code": apartment.Code,
		},
	}
}

func roleUpgradedEvent(request *models.LeaseRequest, user *models.User, apartment *models.Apartment, from, to models.Role) Event {
	return Event{
		Type:           EventRoleUpgraded,
		Title:          "Role Updated",
		Message:        fmt.Sprintf("Role changed from %s to %s", from, to),
		Priority:       "low",
		RecipientID:    &user.ID,
		LeaseRequestID: request.ID,
		Data: map[string]interface{}{
			"old_role":         from,
			"new_role":         to,
			"lease_request_id": request.ID.String(),
			"apartment_code":   apartment.Code,
		},
	}
}

func cancellationEvent(request *models.LeaseRequest, actor *Actor) Event {
	return Event{
		Type:           EventCancelled,
		Title:          "Request Cancelled",
		Message:        fmt.Sprintf("Lease request for apartment %s was cancelled", apartmentCode(request.Apartment)),
		Priority:       "low",
		LeaseRequestID: request.ID,
		Data: map[string]interface{}{
			"cancelled_by": actor.ID.String(),
		},
	}
}
