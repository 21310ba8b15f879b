package chord

import (
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/drumscribe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	notes model.Notes
}

func (c *collector) add(n model.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, n)
}

func (c *collector) shape() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return shape(c.notes)
}

func ms(v float64) *float64 {
	return &v
}

func TestLiveCommitsOnNextBeat(t *testing.T) {
	c := &collector{}
	l := NewLive(120, time.Hour, c.add)

	for _, h := range []model.Hit{{Key: 36, TimeMs: 0}, {Key: 38, TimeMs: 20}} {
		ok, err := l.Hit(h.Key, ms(h.TimeMs))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Empty(t, c.shape())

	l.Hit(42, ms(500))
	assert.Equal(t, []string{"[bd sn]4"}, c.shape())

	l.Flush()
	assert.Equal(t, []string{"[bd sn]4", "[hhc]1"}, c.shape())

	l.Flush()
	assert.Len(t, c.shape(), 2)
}

func TestLiveFlushesAfterIdle(t *testing.T) {
	c := &collector{}
	l := NewLive(120, 20*time.Millisecond, c.add)

	_, err := l.Hit(49, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(c.shape()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"[cymc]1"}, c.shape())
}

func TestLiveIgnoresUnmappedKeys(t *testing.T) {
	c := &collector{}
	l := NewLive(120, 10*time.Millisecond, c.add)

	ok, err := l.Hit(0, ms(0))
	assert.NoError(t, err)
	assert.False(t, ok)
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, c.shape())
}

func TestLiveRejectsMixedClocksWithinPhrase(t *testing.T) {
	c := &collector{}
	l := NewLive(120, time.Hour, c.add)

	_, err := l.Hit(36, ms(0))
	require.NoError(t, err)
	_, err = l.Hit(38, nil)
	assert.ErrorIs(t, err, ErrMixedClocks)

	l.Flush()
	assert.Equal(t, []string{"[bd]1"}, c.shape())

	// a new phrase may pick the other clock
	_, err = l.Hit(38, nil)
	assert.NoError(t, err)
	_, err = l.Hit(42, ms(10))
	assert.ErrorIs(t, err, ErrMixedClocks)
}
