package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry(30*time.Minute, 5*time.Minute, logging.Default())

	first := r.GetOrCreate("s1", "biz-1")
	second := r.GetOrCreate("s1", "biz-1")

	assert.Same(t, first, second)
	assert.Equal(t, "biz-1", first.BusinessID)
	assert.Equal(t, StateNew, first.State)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryEvictIdle(t *testing.T) {
	r := NewRegistry(30*time.Minute, 5*time.Minute, logging.Default())

	current := time.Now()
	r.now = func() time.Time { return current }

	stale := r.GetOrCreate("stale", "biz-1")
	stale.LastActivity = current.Add(-31 * time.Minute)
	fresh := r.GetOrCreate("fresh", "biz-1")
	fresh.LastActivity = current.Add(-1 * time.Minute)

	evicted := r.EvictIdle()

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, r.Len())
	assert.Same(t, fresh, r.GetOrCreate("fresh", "biz-1"))
}

func TestRegistryTouch(t *testing.T) {
	r := NewRegistry(30*time.Minute, 5*time.Minute, logging.Default())

	sess := r.GetOrCreate("s1", "biz-1")
	sess.LastActivity = time.Now().Add(-1 * time.Hour)

	r.Touch(sess)

	assert.WithinDuration(t, time.Now(), sess.LastActivity, time.Second)
}

func TestRegistryStartStop(t *testing.T) {
	r := NewRegistry(time.Minute, 10*time.Millisecond, logging.Default())
	r.Start()
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	r.Stop() // second call must be safe
}

func TestSessionHistoryBounded(t *testing.T) {
	sess := &Session{}
	for i := 0; i < 12; i++ {
		sess.Append(Message{Role: RoleVisitor, Text: string(rune('a' + i))})
	}

	require.Len(t, sess.History, 10)
	assert.Equal(t, "c", sess.History[0].Text, "oldest entries drop first")
	assert.Equal(t, "l", sess.History[9].Text)
}

func TestSessionStateMonotonic(t *testing.T) {
	sess := &Session{State: StateNew}

	sess.Advance(StateAwaitingContact)
	assert.Equal(t, StateAwaitingContact, sess.State)

	sess.Advance(StateEngaged)
	assert.Equal(t, StateAwaitingContact, sess.State, "no back-transitions")

	sess.Advance(StateConverted)
	assert.Equal(t, StateConverted, sess.State)
}
