package businessflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/salesloop/outreach/app/services"
	"github.com/stretchr/testify/assert"
)

func TestDispatchErrorClassification(t *testing.T) {
	t.Run("ProviderRejectionIsFatal", func(t *testing.T) {
		rejected := fmt.Errorf("email delivery failed for avery.kim@example.com: REJECTED (422): %w", services.ErrDeliveryRejected)

		ue := newDispatchError("email", rejected)
		assert.False(t, ue.Retriable)
		assert.Contains(t, ue.Error(), "fatal")
		assert.False(t, IsRetriableUpstream(ue))
	})

	t.Run("TransportFailureIsRetriable", func(t *testing.T) {
		ue := newDispatchError("sms", errors.New("connection reset by peer"))
		assert.True(t, ue.Retriable)
		assert.Contains(t, ue.Error(), "retriable")
		assert.True(t, IsRetriableUpstream(ue))
	})

	t.Run("UnwrapKeepsCause", func(t *testing.T) {
		cause := fmt.Errorf("sms delivery failed: BLOCKED (403): %w", services.ErrDeliveryRejected)
		ue := newDispatchError("sms", cause)
		assert.ErrorIs(t, ue, services.ErrDeliveryRejected)
	})
}
