package inbound

import (
	"errors"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// Subscribe accepts a subscription request.
// @Summary Subscribe to the newsletter
// @Description Validates the form and emails a confirmation link.
// @Tags Subscription
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Subscriber name"
// @Param email formData string true "Subscriber email"
// @Success 200 {object} router.successResponse{data=SubscribeResponse} "Subscription received"
// @Failure 409 {object} router.errorResponse "Request already in progress"
// @Failure 422 {object} router.errorResponse "Decode or validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /subscriptions [post]
func (h *HTTPEndpoint) Subscribe(r *router.Request) (any, error) {
	body, err := r.ReadBody()
	if err != nil {
		return nil, err
	}

	ns, err := ExtractNewSubscriber(r.Context(), body, r.ContentType())
	if err != nil {
		var rej *Rejection
		if errors.As(err, &rej) {
			return nil, goerror.NewUnprocessable(rej.Error(), rej)
		}
		return nil, err
	}

	if err := h.uc.Subscribe(r.Context(), ns); err != nil {
		return nil, err
	}

	return SubscribeResponse{}, nil
}

// Confirm confirms a pending subscription.
// @Summary Confirm a subscription
// @Description Confirms the subscription behind the emailed token.
// @Tags Subscription
// @Produce json
// @Param subscription_token query string true "Confirmation token"
// @Success 200 {object} router.successResponse{data=ConfirmResponse} "Subscription confirmed"
// @Failure 401 {object} router.errorResponse "Unknown or expired token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /subscriptions/confirm [get]
func (h *HTTPEndpoint) Confirm(r *router.Request) (any, error) {
	if err := h.uc.Confirm(r.Context(), usecase.ConfirmInput{
		SubscriptionToken: r.GetQuery("subscription_token"),
	}); err != nil {
		return nil, err
	}

	return ConfirmResponse{}, nil
}
