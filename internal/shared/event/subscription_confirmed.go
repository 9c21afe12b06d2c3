package event

const SubscriptionConfirmedDestination string = "subscription_confirmed"
const SubscriptionConfirmedConsumerWelcome string = "subscription_confirmed_welcome"

type SubscriptionConfirmedMessage struct {
	SubscriptionID string `json:"subscription_id" validate:"required,uuid"`
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required"`
}
