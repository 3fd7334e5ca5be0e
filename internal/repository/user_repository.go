package repository

import (
	"context"
	"time"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
)

// UserPatch carries the editable user fields; nil pointers are omitted from
// the write entirely (the store rejects explicit nulls).
type UserPatch struct {
	Name          *string
	Lastname      *string
	DNI           *string
	Mail          *string
	Nationality   *string
	OriginCompany *string
}

// UserRepository encapsulates the users collection.
type UserRepository interface {
	Subscribe(ctx context.Context, onSnapshot func([]domain.User), onError docstore.ErrorFunc) (docstore.UnsubscribeFunc, error)
	Create(ctx context.Context, user domain.User) (string, error)
	Patch(ctx context.Context, id string, patch UserPatch) error
	AppendTicket(ctx context.Context, userID, ticketID string) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	store docstore.Store
}

// NewUserRepository instantiates the repository.
func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Subscribe(ctx context.Context, onSnapshot func([]domain.User), onError docstore.ErrorFunc) (docstore.UnsubscribeFunc, error) {
	return r.store.Subscribe(ctx, docstore.CollectionUsers, func(docs []docstore.Document) {
		users := make([]domain.User, 0, len(docs))
		for _, doc := range docs {
			users = append(users, decodeUser(doc))
		}
		onSnapshot(users)
	}, onError)
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (string, error) {
	payload := docstore.Document{
		"name":          user.Name,
		"lastname":      user.Lastname,
		"dni":           domain.NormalizeDNI(user.DNI),
		"mail":          user.Mail,
		"nationality":   user.Nationality,
		"originCompany": user.OriginCompany,
		"createdAt":     time.Now(),
		"updatedAt":     time.Now(),
	}
	return r.store.Create(ctx, docstore.CollectionUsers, payload)
}

func (r *userRepository) Patch(ctx context.Context, id string, patch UserPatch) error {
	doc := docstore.Document{"updatedAt": time.Now()}
	if patch.Name != nil {
		doc["name"] = *patch.Name
	}
	if patch.Lastname != nil {
		doc["lastname"] = *patch.Lastname
	}
	if patch.DNI != nil {
		doc["dni"] = domain.NormalizeDNI(*patch.DNI)
	}
	if patch.Mail != nil {
		doc["mail"] = *patch.Mail
	}
	if patch.Nationality != nil {
		doc["nationality"] = *patch.Nationality
	}
	if patch.OriginCompany != nil {
		doc["originCompany"] = *patch.OriginCompany
	}
	return r.store.Update(ctx, docstore.CollectionUsers, id, doc)
}

// AppendTicket adds the ticket id to the user's tickets array with union
// semantics: an id already present is not re-added.
func (r *userRepository) AppendTicket(ctx context.Context, userID, ticketID string) error {
	docs, err := r.store.Load(ctx, docstore.CollectionUsers)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.ID() != userID {
			continue
		}
		user := decodeUser(doc)
		for _, existing := range user.Tickets {
			if existing == ticketID {
				return nil
			}
		}
		tickets := append(user.Tickets, ticketID)
		return r.store.Update(ctx, docstore.CollectionUsers, userID, docstore.Document{
			"tickets":   tickets,
			"updatedAt": time.Now(),
		})
	}
	return docstore.ErrNotFound
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionUsers, id)
}
