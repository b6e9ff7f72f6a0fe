package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetClear(t *testing.T) {
	s := NewStore(time.Minute)

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Put(1, Draft{Action: ActionPurchase, TariffID: 5})
	draft, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint(5), draft.TariffID)

	s.Clear(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	s.Put(1, Draft{Action: ActionExtend})

	time.Sleep(40 * time.Millisecond)
	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	s := NewStore(time.Minute)

	// Обновление несуществующего черновика
	ok := s.Update(1, func(d *Draft) { d.PeriodDays = 30 })
	assert.False(t, ok)

	s.Put(1, Draft{Action: ActionPurchase, TariffID: 5})
	ok = s.Update(1, func(d *Draft) { d.PeriodDays = 90 })
	require.True(t, ok)

	draft, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 90, draft.PeriodDays)
	assert.Equal(t, uint(5), draft.TariffID)
}

func TestIsolationBetweenUsers(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(1, Draft{TariffID: 5})
	s.Put(2, Draft{TariffID: 6})

	s.Clear(1)
	draft, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, uint(6), draft.TariffID)
}

func TestClose(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(1, Draft{TariffID: 5})

	s.Close()
	// Повторный Close не паникует, данные доступны после остановки уборщика
	s.Close()

	draft, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint(5), draft.TariffID)
}
