package leads

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
)

type recordedEvent struct {
	BusinessID string
	EventType  string
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeRecorder) RecordEvent(ctx context.Context, businessID, eventType string, payload map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{BusinessID: businessID, EventType: eventType})
}

type fakeNotifier struct {
	saved   int
	created int
}

func (f *fakeNotifier) LeadSaved(ctx context.Context, biz *business.Business, lead *Lead, created bool) {
	f.saved++
	if created {
		f.created++
	}
}

func newTestWriter(t *testing.T) (*Writer, *InMemoryRepository, *fakeRecorder, *fakeNotifier) {
	t.Helper()
	repo := NewInMemoryRepository()
	businesses := business.NewInMemoryRepository()
	businesses.Put(&business.Business{
		ID:       "biz-1",
		Name:     "Bright Smile Dental",
		Services: []string{"Teeth Whitening", "Braces", "Dental Implants"},
	})
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	return NewWriter(repo, businesses, recorder, notifier, nil), repo, recorder, notifier
}

func TestSaveCreatesLeadWithDefaults(t *testing.T) {
	writer, _, recorder, notifier := newTestWriter(t)

	lead, confirmation, err := writer.Save(context.Background(), "biz-1",
		Contact{Name: "John Doe", Phone: "5551234567", Email: "john@x.com"}, "", "tooth pain")
	require.NoError(t, err)

	assert.Equal(t, StatusNew, lead.Status)
	assert.Equal(t, DefaultService, lead.Service)
	assert.Equal(t, "5551234567", lead.Phone)
	require.Len(t, lead.Interactions, 1)
	assert.Equal(t, "created", lead.Interactions[0].Kind)
	assert.Equal(t, "tooth pain", lead.Interactions[0].Note)

	assert.Contains(t, confirmation, "John")
	assert.Contains(t, confirmation, "5551234567")
	assert.Contains(t, confirmation, DefaultService)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "lead_created", recorder.events[0].EventType)
	assert.Equal(t, 1, notifier.created)
}

func TestSaveDedupsByPhoneAndMerges(t *testing.T) {
	writer, repo, recorder, _ := newTestWriter(t)
	ctx := context.Background()

	first, _, err := writer.Save(ctx, "biz-1",
		Contact{Name: "John Doe", Phone: "5551112222", Email: "john@x.com"}, "Braces", "wants braces")
	require.NoError(t, err)

	second, confirmation, err := writer.Save(ctx, "biz-1",
		Contact{Name: "Johnny D", Phone: "555-111-2222"}, "", "follow up")
	require.NoError(t, err)

	// Same record, second name wins, email kept from the first save.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Johnny D", second.Name)
	assert.Equal(t, "john@x.com", second.Email)
	require.Len(t, second.Interactions, 2)
	assert.Equal(t, "updated", second.Interactions[1].Kind)
	assert.Contains(t, confirmation, "updated")

	all, err := repo.ListByBusiness(ctx, "biz-1", ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.Len(t, recorder.events, 2)
	assert.Equal(t, "lead_updated", recorder.events[1].EventType)
}

func TestSaveMergeRefreshesLastContact(t *testing.T) {
	writer, repo, _, _ := newTestWriter(t)
	ctx := context.Background()

	first, _, err := writer.Save(ctx, "biz-1",
		Contact{Name: "John Doe", Phone: "5551112222"}, "", "wants braces")
	require.NoError(t, err)

	stale := time.Now().UTC().Add(-time.Hour)
	first.LastContactAt = stale
	_, err = repo.Update(ctx, first)
	require.NoError(t, err)

	merged, _, err := writer.Save(ctx, "biz-1",
		Contact{Name: "John Doe", Phone: "5551112222"}, "", "follow up")
	require.NoError(t, err)

	assert.True(t, merged.LastContactAt.After(stale), "merge must refresh the last-contact timestamp")
}

func TestSaveDedupsByEmailWhenPhoneDiffers(t *testing.T) {
	writer, repo, _, _ := newTestWriter(t)
	ctx := context.Background()

	_, _, err := writer.Save(ctx, "biz-1",
		Contact{Name: "Jane Roe", Phone: "5553334444", Email: "jane@x.com"}, "", "")
	require.NoError(t, err)

	_, _, err = writer.Save(ctx, "biz-1",
		Contact{Name: "Jane Roe", Phone: "5550000000", Email: "jane@x.com"}, "", "")
	require.NoError(t, err)

	all, err := repo.ListByBusiness(ctx, "biz-1", ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "5550000000", all[0].Phone)
}

func TestSaveRejectsIncompleteContact(t *testing.T) {
	writer, _, _, _ := newTestWriter(t)

	_, _, err := writer.Save(context.Background(), "biz-1", Contact{Name: "John"}, "", "")
	assert.ErrorIs(t, err, ErrMissingContact)
}

func TestSaveUnknownBusiness(t *testing.T) {
	writer, _, _, _ := newTestWriter(t)

	_, _, err := writer.Save(context.Background(), "nope",
		Contact{Name: "John Doe", Phone: "5551234567"}, "", "")
	assert.ErrorIs(t, err, business.ErrBusinessNotFound)
}

func TestSaveKeepsResolvedService(t *testing.T) {
	writer, _, _, _ := newTestWriter(t)

	lead, _, err := writer.Save(context.Background(), "biz-1",
		Contact{Name: "Ana K", Phone: "5556667777"}, "Teeth Whitening", "whitening inquiry")
	require.NoError(t, err)
	assert.Equal(t, "Teeth Whitening", lead.Service)
}
