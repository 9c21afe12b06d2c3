package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmInput struct {
	SubscriptionToken string `validate:"required,token"`
}

type confirmedEvent struct {
	SubscriptionID string `validate:"required,uuid"`
	Email          string `validate:"required,email"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    any
		wantErr map[string]string
	}{
		{
			name: "valid token",
			data: confirmInput{SubscriptionToken: strings.Repeat("aZ0_-", 8) + "abc"},
		},
		{
			name:    "missing token",
			data:    confirmInput{},
			wantErr: map[string]string{"subscription_token": "SubscriptionToken is a required field"},
		},
		{
			name:    "token with padding",
			data:    confirmInput{SubscriptionToken: strings.Repeat("a", 42) + "="},
			wantErr: map[string]string{"subscription_token": "SubscriptionToken is not a valid token"},
		},
		{
			name:    "token too short",
			data:    confirmInput{SubscriptionToken: "abc"},
			wantErr: map[string]string{"subscription_token": "SubscriptionToken is not a valid token"},
		},
		{
			name: "valid event",
			data: confirmedEvent{SubscriptionID: "0190a3f4-5c1e-7c2a-9b1d-2f3e4a5b6c7d", Email: "a@b.co"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.data)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Values())
		})
	}
}

func TestV10Validator_Validate_Event(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(confirmedEvent{SubscriptionID: "not-a-uuid", Email: "nope"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Values(), "subscription_id")
	assert.Contains(t, verr.Values(), "email")
}

func TestV10Validator_NonStruct(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate("not a struct")

	require.Error(t, err)
	var verr V10ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestV10ValidationError_Error(t *testing.T) {
	err := V10ValidationError{"email": "Email must be a valid email address"}

	assert.Equal(t, `validation error: {"email":"Email must be a valid email address"}`, err.Error())
}
