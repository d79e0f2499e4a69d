package bus

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ Event, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestPublishByKind(t *testing.T) {
	b := New()
	var hits, demos []Event
	_, err := b.Subscribe(KindBallHit, func(e Event) error { hits = append(hits, e); return nil })
	require.NoError(t, err)
	_, err = b.Subscribe(KindDemolition, func(e Event) error { demos = append(demos, e); return nil })
	require.NoError(t, err)

	require.NoError(t, b.Publish(Event{Kind: KindBallHit, Tick: 3, CarID: 1}))
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(1), hits[0].CarID)
	assert.Empty(t, demos)
}

func TestSubscribeAll(t *testing.T) {
	b := New()
	var kinds []Kind
	_, err := b.SubscribeAll(func(e Event) error { kinds = append(kinds, e.Kind); return nil })
	require.NoError(t, err)

	require.NoError(t, b.PublishBatch(
		Event{Kind: KindKickoff},
		Event{Kind: KindBump, CarID: 1, OtherCarID: 2},
		Event{Kind: KindBoostPickup, CarID: 2, PadIndex: 4},
	))
	assert.Equal(t, []Kind{KindKickoff, KindBump, KindBoostPickup}, kinds)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe(KindRespawn, func(Event) error { calls++; return nil })
	require.NoError(t, err)
	assert.True(t, sub.IsActive())
	assert.Equal(t, KindRespawn, sub.Kind())

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	assert.False(t, sub.IsActive())
	require.NoError(t, b.Unsubscribe(nil))

	require.NoError(t, b.Publish(Event{Kind: KindRespawn}))
	assert.Zero(t, calls)
}

func TestHandlerErrorsAreCombined(t *testing.T) {
	b := New()
	first := errors.New("first")
	second := errors.New("second")
	_, _ = b.Subscribe(KindBump, func(Event) error { return first })
	_, _ = b.SubscribeAll(func(Event) error { return second })

	err := b.Publish(Event{Kind: KindBump})
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestFilters(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)

	calls := 0
	_, _ = b.Subscribe(KindBallHit, func(Event) error { calls++; return nil })

	onlyBlue := func(e Event) bool { return e.CarID == 1 }
	require.NoError(t, b.PublishWithFilters(Event{Kind: KindBallHit, CarID: 2}, onlyBlue))
	require.NoError(t, b.PublishWithFilters(Event{Kind: KindBallHit, CarID: 1}, onlyBlue))

	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), b.GetMetrics().DroppedByFilters)
}

func TestMetricsWithoutObservers(t *testing.T) {
	b := New()
	_, _ = b.Subscribe(KindKickoff, func(Event) error { return nil })
	require.NoError(t, b.Publish(Event{Kind: KindKickoff}))
	require.NoError(t, b.PublishWithFilters(Event{Kind: KindKickoff}, func(Event) bool { return false }))

	m := b.GetMetrics()
	assert.Equal(t, uint64(1), m.Published)
	assert.Equal(t, uint64(1), m.DeliveredHandlers)
	assert.Equal(t, uint64(1), m.DroppedByFilters)
	assert.Equal(t, uint64(1), m.SubscribersActive)
}

func TestObservers(t *testing.T) {
	b := New()
	_, _ = b.Subscribe(KindKickoff, func(Event) error { return nil })

	obs := &testObserver{}
	b.AddObserver(obs)
	require.NoError(t, b.Publish(Event{Kind: KindKickoff}))
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 1, obs.deliveredCount)

	b.RemoveObserver(obs)
	require.NoError(t, b.Publish(Event{Kind: KindKickoff}))
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, uint64(2), b.GetMetrics().Published)
}

func TestPadIndexZeroIsEncoded(t *testing.T) {
	raw, err := json.Marshal(Event{Kind: KindBoostPickup, CarID: 1, PadIndex: 0, Amount: 12})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"pad_index":0`)
}
