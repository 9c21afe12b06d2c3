package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/messaging"
	"github.com/shandysiswandi/newsletter/internal/shared/event"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	args := m.Called(ctx, destination, msg)
	return args.Get(0).(messaging.PublishResult), args.Error(1)
}

func TestMessaging_PublishSubscriptionConfirmed(t *testing.T) {
	t.Run("publishes payload with correlation id", func(t *testing.T) {
		pub := new(mockPublisher)
		m := NewMessaging(pub, instrument.NewNoop())
		ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

		pub.On("Publish", mock.Anything, event.SubscriptionConfirmedDestination, mock.MatchedBy(func(msg messaging.OutgoingMessage) bool {
			return assert.JSONEq(t,
				`{"subscription_id":"sub-1","email":"ursula_le_guin@gmail.com","name":"le guin"}`,
				string(msg.Body),
			) && msg.Headers["cID"] == "cid-1" && string(msg.Key) == "sub-1"
		})).Return(messaging.PublishResult{MessageID: "1"}, nil).Once()

		err := m.PublishSubscriptionConfirmed(ctx, usecase.SubscriptionConfirmedEvent{
			SubscriptionID: "sub-1",
			Email:          "ursula_le_guin@gmail.com",
			Name:           "le guin",
		})

		require.NoError(t, err)
		pub.AssertExpectations(t)
	})

	t.Run("publish error", func(t *testing.T) {
		pub := new(mockPublisher)
		m := NewMessaging(pub, instrument.NewNoop())
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).
			Return(messaging.PublishResult{}, errors.New("broker down")).Once()

		err := m.PublishSubscriptionConfirmed(context.Background(), usecase.SubscriptionConfirmedEvent{SubscriptionID: "sub-1"})

		assert.EqualError(t, err, "broker down")
	})
}
