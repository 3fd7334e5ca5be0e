package repository

import (
	"context"
	"time"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
)

// TicketRepository encapsulates the tickets collection.
type TicketRepository interface {
	Subscribe(ctx context.Context, onSnapshot func([]domain.Ticket), onError docstore.ErrorFunc) (docstore.UnsubscribeFunc, error)
	Create(ctx context.Context, ticket domain.Ticket) (string, error)
	SetState(ctx context.Context, id string, state domain.TicketState, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	store docstore.Store
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(store docstore.Store) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Subscribe(ctx context.Context, onSnapshot func([]domain.Ticket), onError docstore.ErrorFunc) (docstore.UnsubscribeFunc, error) {
	return r.store.Subscribe(ctx, docstore.CollectionTickets, func(docs []docstore.Document) {
		tickets := make([]domain.Ticket, 0, len(docs))
		for _, doc := range docs {
			tickets = append(tickets, decodeTicket(doc))
		}
		onSnapshot(tickets)
	}, onError)
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) (string, error) {
	payload := docstore.Document{
		"uid":   ticket.UID,
		"state": int(ticket.State),
		"date":  ticket.Date,
	}
	if ticket.Description != "" {
		payload["description"] = ticket.Description
	}
	if len(ticket.Items) > 0 {
		payload["items"] = ticket.Items
	}
	return r.store.Create(ctx, docstore.CollectionTickets, payload)
}

func (r *ticketRepository) SetState(ctx context.Context, id string, state domain.TicketState, updatedAt time.Time) error {
	patch := docstore.Document{
		"state":     int(state),
		"updatedAt": updatedAt,
	}
	return r.store.Update(ctx, docstore.CollectionTickets, id, patch)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionTickets, id)
}
