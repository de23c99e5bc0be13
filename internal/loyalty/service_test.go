package loyalty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardRedeemHistory(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	bal, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, bal)

	bal, err = svc.Award(ctx, "u1", 30, "order", map[string]any{"reservation_id": "r1"})
	require.NoError(t, err)
	assert.Equal(t, 30, bal)

	_, err = svc.Redeem(ctx, "u1", 31, "order", nil)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	bal, err = svc.Redeem(ctx, "u1", 12, "order", nil)
	require.NoError(t, err)
	assert.Equal(t, 18, bal)

	_, err = svc.Award(ctx, "u1", 0, "noop", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Award(ctx, "", 5, "guest", nil)
	assert.ErrorIs(t, err, ErrUserRequired)

	hist, err := svc.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, KindRedeem, hist[0].Kind)
	assert.Equal(t, KindAward, hist[1].Kind)
	assert.Equal(t, "r1", hist[1].Metadata["reservation_id"])
}

func TestDecodeMetadata(t *testing.T) {
	assert.Equal(t, map[string]any{"reservation_id": "r1"}, decodeMetadata("t1", []byte(`{"reservation_id":"r1"}`)))
	assert.Nil(t, decodeMetadata("t1", nil))
	assert.Nil(t, decodeMetadata("t1", []byte("null")))
	assert.Nil(t, decodeMetadata("t1", []byte(`{"broken":`)))
	assert.Nil(t, decodeMetadata("t1", []byte(`[1,2]`)))
}
