package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
	"github.com/spec-kit/laundry-service/internal/repository"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

type fixture struct {
	store   *docstore.MemoryStore
	manager *LifecycleManager
	stop    func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	manager := NewLifecycleManager(LifecycleDependencies{
		TicketRepo: repository.NewTicketRepository(store),
		UserRepo:   repository.NewUserRepository(store),
		Logger:     zap.NewNop(),
	})
	stop, err := manager.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(stop)
	return &fixture{store: store, manager: manager, stop: stop}
}

func (f *fixture) addUser(t *testing.T, name, dni string) string {
	t.Helper()
	id, err := f.store.Create(context.Background(), docstore.CollectionUsers, docstore.Document{
		"name": name, "lastname": "Test", "dni": dni,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) addTicket(t *testing.T, uid string, state domain.TicketState, date any) string {
	t.Helper()
	id, err := f.store.Create(context.Background(), docstore.CollectionTickets, docstore.Document{
		"uid": uid, "state": int(state), "date": date,
	})
	require.NoError(t, err)
	return id
}

func TestFilterByDNI(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", "11122233")
	bruno := f.addUser(t, "Bruno", "44455566")

	f.addTicket(t, ana, domain.TicketStateReceived, time.Now())
	f.addTicket(t, bruno, domain.TicketStateReceived, time.Now())
	f.addTicket(t, "ghost-user", domain.TicketStateReceived, time.Now())

	// Orphans never match, not even the empty filter.
	assert.Len(t, f.manager.FilterByDNI(""), 2)
	assert.Len(t, f.manager.FilterByDNI("111"), 1)
	assert.Len(t, f.manager.FilterByDNI("555"), 1)
	assert.Empty(t, f.manager.FilterByDNI("999"))
	assert.Equal(t, "Ana", f.manager.FilterByDNI("111")[0].User.Name)
}

func TestTicketOrderingNewestFirstMalformedLast(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", "111")

	oldest := f.addTicket(t, ana, domain.TicketStateReceived, time.Now().Add(-48*time.Hour))
	newest := f.addTicket(t, ana, domain.TicketStateReceived, time.Now())
	malformed := f.addTicket(t, ana, domain.TicketStateReceived, "not a date")

	list := f.manager.FilterByDNI("")
	require.Len(t, list, 3)
	assert.Equal(t, newest, list[0].Ticket.ID)
	assert.Equal(t, oldest, list[1].Ticket.ID)
	assert.Equal(t, malformed, list[2].Ticket.ID)
}

func TestPaginate(t *testing.T) {
	list := make([]TicketWithUser, 25)
	for i := range list {
		list[i] = TicketWithUser{Ticket: domain.Ticket{ID: fmt.Sprintf("t%02d", i)}}
	}

	page := Paginate(list, 10, 2)
	require.Len(t, page, 10)
	assert.Equal(t, "t10", page[0].Ticket.ID)
	assert.Equal(t, "t19", page[9].Ticket.ID)

	assert.Len(t, Paginate(list, 10, 3), 5)
	assert.Empty(t, Paginate(list, 10, 4))
	assert.Len(t, Paginate(list, 0, 1), 25)
	assert.Len(t, Paginate(list, 10, 0), 10)
}

func TestToggleSelect(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.manager.ToggleSelect("t1"))
	assert.True(t, f.manager.ToggleSelect("t2"))
	assert.Equal(t, []string{"t1", "t2"}, f.manager.SelectedIDs())

	assert.False(t, f.manager.ToggleSelect("t1"))
	assert.Equal(t, []string{"t2"}, f.manager.SelectedIDs())

	f.manager.ClearSelection()
	assert.Empty(t, f.manager.SelectedIDs())
}

func TestToggleSelectAllOverFilteredSet(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", "111")
	bruno := f.addUser(t, "Bruno", "222")

	anaTicket := f.addTicket(t, ana, domain.TicketStateReceived, time.Now())
	f.addTicket(t, bruno, domain.TicketStateReceived, time.Now())

	f.manager.ToggleSelectAll("111")
	assert.Equal(t, []string{anaTicket}, f.manager.SelectedIDs())

	// Everything filtered is already selected: the whole set clears.
	f.manager.ToggleSelectAll("111")
	assert.Empty(t, f.manager.SelectedIDs())

	f.manager.ToggleSelectAll("")
	assert.Len(t, f.manager.SelectedIDs(), 2)
}

func TestCreateTicketMatchesNormalizedDNI(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", "11222333")

	id, err := f.manager.CreateTicket(context.Background(), "11.222.333", map[string]int{"camisa": 2}, "  sin almidón ")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list := f.manager.FilterByDNI("11222333")
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].Ticket.ID)
	assert.Equal(t, domain.TicketStateReceived, list[0].Ticket.State)
	assert.Equal(t, "sin almidón", list[0].Ticket.Description)

	// The back-reference lands on the owner.
	docs, err := f.store.Load(context.Background(), docstore.CollectionUsers)
	require.NoError(t, err)
	for _, doc := range docs {
		if doc.ID() == ana {
			assert.Contains(t, doc["tickets"], id)
		}
	}
}

func TestCreateTicketUnknownDNIWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "Ana", "111")

	_, err := f.manager.CreateTicket(context.Background(), "999", nil, "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	docs, err := f.store.Load(context.Background(), docstore.CollectionTickets)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpdateTicketState(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", "111")
	id := f.addTicket(t, ana, domain.TicketStateReceived, time.Now())

	require.NoError(t, f.manager.UpdateTicketState(context.Background(), id, domain.TicketStateReady))

	list := f.manager.FilterByDNI("")
	require.Len(t, list, 1)
	assert.Equal(t, domain.TicketStateReady, list[0].Ticket.State)
	assert.NotNil(t, list[0].Ticket.UpdatedAt)

	// Backwards corrections stay allowed.
	require.NoError(t, f.manager.UpdateTicketState(context.Background(), id, domain.TicketStateReceived))

	err := f.manager.UpdateTicketState(context.Background(), id, domain.TicketState(7))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestBulkUpdateStatePartialFailure(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", "111")

	good1 := f.addTicket(t, ana, domain.TicketStateReceived, time.Now())
	good2 := f.addTicket(t, ana, domain.TicketStateReceived, time.Now())
	bad := f.addTicket(t, ana, domain.TicketStateReceived, time.Now())
	f.store.FailUpdates[bad] = true

	f.manager.ToggleSelectAll("")
	require.Len(t, f.manager.SelectedIDs(), 3)

	failures := f.manager.BulkUpdateState(context.Background(), []string{good1, good2, bad}, domain.TicketStateDelivered)

	require.Len(t, failures, 1)
	assert.Contains(t, failures, bad)
	assert.Empty(t, f.manager.SelectedIDs(), "selection clears whatever the outcome")

	for _, entry := range f.manager.FilterByDNI("") {
		switch entry.Ticket.ID {
		case good1, good2:
			assert.Equal(t, domain.TicketStateDelivered, entry.Ticket.State)
		case bad:
			assert.Equal(t, domain.TicketStateReceived, entry.Ticket.State)
		}
	}
}

func TestBulkUpdateStateInvalidStateFailsEveryID(t *testing.T) {
	f := newFixture(t)

	failures := f.manager.BulkUpdateState(context.Background(), []string{"a", "b"}, domain.TicketState(0))
	assert.Len(t, failures, 2)
}
