// internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/residence-backend/internal/metrics"
	"github.com/javajoker/residence-backend/internal/models"
)

const (
	EventGuestSubmitted     = "lease_request.guest_submitted"
	EventOwnerReview        = "lease_request.owner_review"
	EventOwnerApproved      = "lease_request.owner_approved"
	EventApproved           = "lease_request.approved"
	EventRejected           = "lease_request.rejected"
	EventCancelled          = "lease_request.cancelled"
	EventRoleUpgraded       = "user.role_upgraded"
	EventGuestAccountIssued = "user.guest_account_created"
)

// Event is a structured workflow notification. RecipientID is nil for events
// addressed to the management queue.
type Event struct {
	Type           string
	Title          string
	Message        string
	Priority       string
	RecipientID    *uuid.UUID
	LeaseRequestID uuid.UUID
	Data           map[string]interface{}
}

// NotificationSink receives workflow events. Implementations must be safe for
// concurrent use.
type NotificationSink interface {
	Notify(ctx context.Context, event Event) error
}

// NotificationService stores events as admin notifications.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Notify(ctx context.Context, event Event) error {
	priority := event.Priority
	if priority == "" {
		priority = "medium"
	}

	requestID := event.LeaseRequestID
	notification := &models.AdminNotification{
		Type:                event.Type,
		Title:               event.Title,
		Message:             event.Message,
		Priority:            priority,
		Status:              "unread",
		RecipientID:         event.RecipientID,
		RelatedResourceType: "lease_request",
		RelatedResourceID:   &requestID,
		Data:                models.JSONB(event.Data),
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"type":             event.Type,
		"lease_request_id": event.LeaseRequestID,
		"recipient_id":     event.RecipientID,
	}).Info("Notification recorded")
	return nil
}

// Dispatcher delivers events to a sink in the background. Delivery has its own
// deadline and never reports back to the operation that produced the event.
type Dispatcher struct {
	sink    NotificationSink
	timeout time.Duration
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewDispatcher(sink NotificationSink, timeout time.Duration, m *metrics.Metrics) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{sink: sink, timeout: timeout, metrics: m}
}

func (d *Dispatcher) Dispatch(events ...Event) {
	if d == nil || d.sink == nil {
		return
	}
	for _, event := range events {
		d.wg.Add(1)
		go d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Event) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"type":  event.Type,
				"panic": r,
			}).Error("Notification sink panicked")
			d.record(event.Type, fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.sink.Notify(ctx, event)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":             event.Type,
			"lease_request_id": event.LeaseRequestID,
		}).Warn("Failed to deliver notification")
	}
	d.record(event.Type, err)
}

func (d *Dispatcher) record(eventType string, err error) {
	if d.metrics != nil {
		d.metrics.Notification(eventType, err)
	}
}

// Wait blocks until every dispatched event has been delivered or dropped.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}
