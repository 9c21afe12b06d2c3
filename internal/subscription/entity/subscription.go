package entity

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending_confirmation"
	SubscriptionStatusConfirmed SubscriptionStatus = "confirmed"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// SubscriptionStatusFromString maps unknown values to pending so a row with
// an unexpected status is never treated as confirmed.
func SubscriptionStatusFromString(s string) SubscriptionStatus {
	if SubscriptionStatus(s) == SubscriptionStatusConfirmed {
		return SubscriptionStatusConfirmed
	}
	return SubscriptionStatusPending
}

func (s SubscriptionStatus) IsConfirmed() bool {
	return s == SubscriptionStatusConfirmed
}

// Subscription is a persisted subscriber row.
type Subscription struct {
	ID           string
	Email        string
	Name         string
	Status       SubscriptionStatus
	SubscribedAt time.Time
}

// SubscriptionToken is the stored side of a confirmation link. Only the hash
// of the token sent by email is ever persisted.
type SubscriptionToken struct {
	TokenHash      string
	SubscriptionID string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

func (t SubscriptionToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type DeliveryKind string

const (
	DeliveryKindConfirmation DeliveryKind = "confirmation"
	DeliveryKindWelcome      DeliveryKind = "welcome"
)

type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Delivery records the outcome of one email dispatch.
type Delivery struct {
	ID             int64
	SubscriptionID string
	Kind           DeliveryKind
	Status         DeliveryStatus
	Error          string
	CreatedAt      time.Time
}

// EmailTemplate names a template pair ({name}.html and {name}.txt).
type EmailTemplate string

const (
	EmailTemplateConfirmation EmailTemplate = "confirmation"
	EmailTemplateWelcome      EmailTemplate = "welcome"
)

func (t EmailTemplate) String() string {
	return string(t)
}

// EmailData is the value every template is executed with.
type EmailData struct {
	Name             string
	ConfirmationLink string
}

// EmailContent is a rendered template pair.
type EmailContent struct {
	HTML string
	Text string
}
