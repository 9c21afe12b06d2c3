package inbound

type SubscribeResponse struct{}

func (SubscribeResponse) Message() string {
	return "Subscription received. Please check your email to confirm."
}

type ConfirmResponse struct{}

func (ConfirmResponse) Message() string {
	return "Subscription confirmed."
}
