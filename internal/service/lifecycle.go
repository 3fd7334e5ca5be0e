package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
	"github.com/spec-kit/laundry-service/internal/events"
	"github.com/spec-kit/laundry-service/internal/repository"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

// TicketWithUser joins a ticket with its owning customer for display.
type TicketWithUser struct {
	Ticket domain.Ticket
	User   domain.User
}

// LifecycleManager owns the in-memory joined view over the live ticket and
// user snapshots and performs all status transitions. Snapshots arrive as
// wholesale replacements from the document store subscription; every derived
// view is recomputed from the latest one.
type LifecycleManager struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu         sync.RWMutex
	ticketList []domain.Ticket
	userByID   map[string]domain.User
	userList   []domain.User
	selection  map[string]struct{}
	lastErr    error
}

// LifecycleDependencies bundles collaborators for the manager.
type LifecycleDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewLifecycleManager constructs the manager.
func NewLifecycleManager(deps LifecycleDependencies) *LifecycleManager {
	return &LifecycleManager{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		userByID:   make(map[string]domain.User),
		selection:  make(map[string]struct{}),
	}
}

// Start subscribes to both collections. The returned func releases the
// subscriptions and must be called on shutdown.
func (m *LifecycleManager) Start(ctx context.Context) (func(), error) {
	unsubTickets, err := m.tickets.Subscribe(ctx, m.replaceTickets, m.recordFeedError)
	if err != nil {
		return nil, err
	}
	unsubUsers, err := m.users.Subscribe(ctx, m.replaceUsers, m.recordFeedError)
	if err != nil {
		unsubTickets()
		return nil, err
	}
	return func() {
		unsubTickets()
		unsubUsers()
	}, nil
}

func (m *LifecycleManager) replaceTickets(tickets []domain.Ticket) {
	// Most recent first; malformed dates coerce to epoch and sink to the end.
	sort.SliceStable(tickets, func(i, j int) bool {
		return domain.CoerceTime(tickets[i].Date).After(domain.CoerceTime(tickets[j].Date))
	})

	m.mu.Lock()
	m.ticketList = tickets
	m.lastErr = nil
	m.mu.Unlock()

	m.publish(events.Event{
		Type:    events.EventSnapshotReplaced,
		Payload: events.SnapshotReplacedPayload{Collection: docstore.CollectionTickets, Documents: len(tickets)},
	})
}

func (m *LifecycleManager) replaceUsers(users []domain.User) {
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		if u.ID != "" {
			byID[u.ID] = u
		}
	}

	m.mu.Lock()
	m.userList = users
	m.userByID = byID
	m.lastErr = nil
	m.mu.Unlock()

	m.publish(events.Event{
		Type:    events.EventSnapshotReplaced,
		Payload: events.SnapshotReplacedPayload{Collection: docstore.CollectionUsers, Documents: len(users)},
	})
}

func (m *LifecycleManager) recordFeedError(err error) {
	m.logger.Warn("subscription feed error", zap.Error(err))
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

// LastError returns the most recent subscription error. It clears once a
// fresh snapshot arrives.
func (m *LifecycleManager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Snapshot returns copies of the current ticket and user lists.
func (m *LifecycleManager) Snapshot() ([]domain.Ticket, []domain.User) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tickets := make([]domain.Ticket, len(m.ticketList))
	copy(tickets, m.ticketList)
	users := make([]domain.User, len(m.userList))
	copy(users, m.userList)
	return tickets, users
}

// UserByDNI resolves a customer by exact normalized DNI match.
func (m *LifecycleManager) UserByDNI(dni string) (domain.User, bool) {
	normalized := domain.NormalizeDNI(dni)
	if normalized == "" {
		return domain.User{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.userList {
		if u.DNI == normalized {
			return u, true
		}
	}
	return domain.User{}, false
}

// FilterByDNI returns the joined tickets whose owner's DNI contains the given
// substring, most recent first. The empty substring matches everything.
// Tickets whose owner is unknown are excluded, not treated as matches.
func (m *LifecycleManager) FilterByDNI(substr string) []TicketWithUser {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := make([]TicketWithUser, 0, len(m.ticketList))
	for _, t := range m.ticketList {
		owner, ok := m.userByID[t.UID]
		if !ok {
			continue
		}
		if substr != "" && !strings.Contains(owner.DNI, substr) {
			continue
		}
		filtered = append(filtered, TicketWithUser{Ticket: t, User: owner})
	}
	return filtered
}

// Paginate slices out one 1-based page. A non-positive page size returns the
// whole list; pages past the end come back empty.
func Paginate(list []TicketWithUser, pageSize, page int) []TicketWithUser {
	if pageSize <= 0 {
		return list
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(list) {
		return []TicketWithUser{}
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// ToggleSelect flips one ticket in the multi-select set and reports whether
// it is now selected.
func (m *LifecycleManager) ToggleSelect(ticketID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.selection[ticketID]; ok {
		delete(m.selection, ticketID)
		return false
	}
	m.selection[ticketID] = struct{}{}
	return true
}

// ToggleSelectAll operates over the currently filtered id set: if every
// filtered ticket is already selected the set is cleared, otherwise all of
// them are selected.
func (m *LifecycleManager) ToggleSelectAll(filterDNI string) {
	filtered := m.FilterByDNI(filterDNI)

	m.mu.Lock()
	defer m.mu.Unlock()

	allSelected := len(filtered) > 0
	for _, entry := range filtered {
		if _, ok := m.selection[entry.Ticket.ID]; !ok {
			allSelected = false
			break
		}
	}
	if allSelected {
		m.selection = make(map[string]struct{})
		return
	}
	for _, entry := range filtered {
		m.selection[entry.Ticket.ID] = struct{}{}
	}
}

// SelectedIDs returns the current multi-select set.
func (m *LifecycleManager) SelectedIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.selection))
	for id := range m.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearSelection empties the multi-select set.
func (m *LifecycleManager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = make(map[string]struct{})
}

// CreateTicket opens a new drop-off ticket for the customer matching the
// given DNI. No write is attempted when the lookup fails.
func (m *LifecycleManager) CreateTicket(ctx context.Context, dni string, items map[string]int, description string) (string, error) {
	owner, ok := m.UserByDNI(dni)
	if !ok {
		return "", apperrors.NewValidationError("no customer matches the given dni", map[string]any{"dni": dni})
	}

	ticket := domain.Ticket{
		UID:         owner.ID,
		State:       domain.TicketStateReceived,
		Date:        time.Now(),
		Description: strings.TrimSpace(description),
		Items:       items,
	}

	id, err := m.tickets.Create(ctx, ticket)
	if err != nil {
		return "", err
	}

	if err := m.users.AppendTicket(ctx, owner.ID, id); err != nil {
		// The ticket exists; the back-reference is best-effort.
		m.logger.Warn("could not append ticket to user",
			zap.String("user_id", owner.ID), zap.String("ticket_id", id), zap.Error(err))
	}

	m.publish(events.Event{
		Type:     events.EventTicketCreated,
		TicketID: id,
		Payload:  events.TicketCreatedPayload{UID: owner.ID, ItemCount: len(items)},
	})
	return id, nil
}

// UpdateTicketState overwrites one ticket's state and stamps updatedAt.
// Transitions are not restricted to forward movement; the operator stays in
// control of corrections.
func (m *LifecycleManager) UpdateTicketState(ctx context.Context, ticketID string, next domain.TicketState) error {
	if !next.Valid() {
		return apperrors.NewValidationError("unknown ticket state", map[string]any{"state": int(next)})
	}
	if err := m.tickets.SetState(ctx, ticketID, next, time.Now()); err != nil {
		return err
	}
	m.publish(events.Event{
		Type:     events.EventTicketStateChanged,
		TicketID: ticketID,
		Payload:  events.TicketStateChangedPayload{NewState: int(next)},
	})
	return nil
}

// BulkUpdateState applies the transition to every id concurrently. It is
// best-effort: one failing ticket does not roll back or block the others.
// The multi-select set is cleared once all writes settle, whatever the
// outcome. The result maps each failed id to its error.
func (m *LifecycleManager) BulkUpdateState(ctx context.Context, ticketIDs []string, next domain.TicketState) map[string]error {
	defer m.ClearSelection()

	failures := make(map[string]error)
	if !next.Valid() {
		err := apperrors.NewValidationError("unknown ticket state", map[string]any{"state": int(next)})
		for _, id := range ticketIDs {
			failures[id] = err
		}
		return failures
	}

	var wg sync.WaitGroup
	var failMu sync.Mutex
	for _, id := range ticketIDs {
		wg.Add(1)
		go func(ticketID string) {
			defer wg.Done()
			if err := m.UpdateTicketState(ctx, ticketID, next); err != nil {
				failMu.Lock()
				failures[ticketID] = err
				failMu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	return failures
}

func (m *LifecycleManager) publish(event events.Event) {
	if m.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = m.dispatcher.Publish(context.Background(), event)
}
