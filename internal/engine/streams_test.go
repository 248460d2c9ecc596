package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/histview/internal/history"
)

func TestStateHub_NewSubscriberGetsCurrent(t *testing.T) {
	hub := newStateHub(history.NewState(true, "S1"))
	hub.publish(history.NewState(false, "S2"))

	sub := hub.subscribe()
	defer sub.Close()

	got := <-sub.C
	assert.Equal(t, "S2", got.CurrentSourceID)
}

func TestStateHub_LastValueWins(t *testing.T) {
	hub := newStateHub(history.NewState(false, "S0"))
	sub := hub.subscribe()
	defer sub.Close()

	for _, id := range []string{"S1", "S2", "S3"} {
		hub.publish(history.NewState(false, id))
	}

	got := <-sub.C
	assert.Equal(t, "S3", got.CurrentSourceID)
	assert.Empty(t, sub.C, "intermediate states are skipped")
}

func TestStateHub_CloseEndsSubscriptions(t *testing.T) {
	hub := newStateHub(history.NewState(false, "S1"))
	sub := hub.subscribe()
	<-sub.C

	hub.close()
	hub.close()

	_, ok := <-sub.C
	assert.False(t, ok)

	late := hub.subscribe()
	_, ok = <-late.C
	assert.False(t, ok, "subscribing after close yields a closed channel")

	// Closing a subscription after the hub is closed is harmless.
	sub.Close()
	late.Close()
}

func TestStateHub_PublishAfterCloseIgnored(t *testing.T) {
	hub := newStateHub(history.NewState(false, "S1"))
	hub.close()
	hub.publish(history.NewState(false, "S2"))

	assert.Equal(t, "S1", hub.latest().CurrentSourceID)
}

func TestStateHub_SettleWakesWaiters(t *testing.T) {
	hub := newStateHub(history.NewState(false, "S1"))
	hub.publish(history.NewState(false, "S2"))

	s, settled, wake, closed := hub.watermark()
	assert.Equal(t, "S2", s.CurrentSourceID)
	assert.Equal(t, int64(0), settled)
	assert.False(t, closed)

	hub.settle(4)

	select {
	case <-wake:
	default:
		t.Fatal("settle did not wake the waiter")
	}
	_, settled, _, _ = hub.watermark()
	assert.Equal(t, int64(4), settled)
}

func TestStateHub_CloseWakesWaiters(t *testing.T) {
	hub := newStateHub(history.NewState(false, "S1"))
	_, _, wake, _ := hub.watermark()

	hub.close()

	select {
	case <-wake:
	default:
		t.Fatal("close did not wake the waiter")
	}
	_, _, _, closed := hub.watermark()
	assert.True(t, closed)
	hub.settle(1) // no-op after close
}

func TestEffectHub_NoSubscriberDrops(t *testing.T) {
	hub := newEffectHub(1)
	assert.False(t, hub.publish(history.NavigateAway{}))
}

func TestEffectHub_EachEffectDeliveredOnce(t *testing.T) {
	hub := newEffectHub(4)
	a := hub.subscribe()
	b := hub.subscribe()
	defer a.Close()
	defer b.Close()

	for i := 0; i < 4; i++ {
		require.True(t, hub.publish(history.PersistShowAllPreference{Value: i%2 == 0}))
	}

	assert.Len(t, a.C, 2)
	assert.Len(t, b.C, 2)
	assert.Equal(t, history.PersistShowAllPreference{Value: true}, <-a.C)
	assert.Equal(t, history.PersistShowAllPreference{Value: false}, <-b.C)
}

func TestEffectHub_FullSubscriberSkipped(t *testing.T) {
	hub := newEffectHub(1)
	a := hub.subscribe()
	b := hub.subscribe()

	require.True(t, hub.publish(history.NavigateAway{}))
	require.True(t, hub.publish(history.NavigateAway{}))
	assert.False(t, hub.publish(history.NavigateAway{}), "both buffers full")

	<-a.C
	assert.True(t, hub.publish(history.NavigateAway{}))
	assert.Len(t, a.C, 1)
	assert.Len(t, b.C, 1)
}

func TestEffectHub_ClosedSubscriptionDropsPending(t *testing.T) {
	hub := newEffectHub(2)
	a := hub.subscribe()
	require.True(t, hub.publish(history.NavigateAway{}))

	a.Close()
	a.Close()

	assert.Equal(t, 0, hub.subscribers())
	assert.False(t, hub.publish(history.NavigateAway{}))
}

func TestEffectHub_CloseEndsSubscriptions(t *testing.T) {
	hub := newEffectHub(1)
	a := hub.subscribe()

	hub.close()

	_, ok := <-a.C
	assert.False(t, ok)
	assert.False(t, hub.publish(history.NavigateAway{}))

	late := hub.subscribe()
	_, ok = <-late.C
	assert.False(t, ok)
}
