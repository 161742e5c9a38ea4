package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/core"
)

func TestAppendAndHistory(t *testing.T) {
	s := NewInMemoryStore()

	assert.Nil(t, s.History("conv-1"))

	s.Append("conv-1", core.NewUserText("hi"), core.NewAssistantText("hello"))

	history := s.History("conv-1")
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Text())
	assert.Equal(t, "hello", history[1].Text())

	assert.Nil(t, s.History("conv-2"))
	assert.Equal(t, 1, s.Len())
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewInMemoryStore()
	s.Append("conv-1", core.NewUserText("original"))

	history := s.History("conv-1")
	history[0] = core.NewUserText("mutated")

	again := s.History("conv-1")
	assert.Equal(t, "original", again[0].Text())
}

func TestTTLExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore(func(o *Options) {
		o.TTL = 10 * time.Minute
		o.Now = func() time.Time { return now }
	})

	s.Append("conv-1", core.NewUserText("hi"))
	require.Len(t, s.History("conv-1"), 1)

	now = now.Add(5 * time.Minute)
	require.Len(t, s.History("conv-1"), 1)

	now = now.Add(6 * time.Minute)
	assert.Nil(t, s.History("conv-1"))
	assert.Equal(t, 0, s.Len())

	// A write after expiry starts a fresh history.
	s.Append("conv-1", core.NewUserText("again"))
	history := s.History("conv-1")
	require.Len(t, history, 1)
	assert.Equal(t, "again", history[0].Text())
}

func TestAppendRefreshesTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore(func(o *Options) {
		o.TTL = 10 * time.Minute
		o.Now = func() time.Time { return now }
	})

	s.Append("conv-1", core.NewUserText("first"))

	now = now.Add(8 * time.Minute)
	s.Append("conv-1", core.NewUserText("second"))

	// 16 minutes after the first write but only 8 after the last.
	now = now.Add(8 * time.Minute)
	assert.Len(t, s.History("conv-1"), 2)
}

func TestMaxMessagesBound(t *testing.T) {
	s := NewInMemoryStore(func(o *Options) {
		o.MaxMessages = 4
	})

	for i := 0; i < 6; i++ {
		s.Append("conv-1", core.NewUserText(fmt.Sprintf("msg %d", i)))
	}

	history := s.History("conv-1")
	require.Len(t, history, 4)
	assert.Equal(t, "msg 2", history[0].Text())
	assert.Equal(t, "msg 5", history[3].Text())
}

func TestConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("conv-%d", n%2)
			for j := 0; j < 50; j++ {
				s.Append(id, core.NewUserText("x"))
				s.History(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, s.Len())
}
