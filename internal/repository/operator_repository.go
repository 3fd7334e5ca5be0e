package repository

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
)

// OperatorRepository encapsulates the operators collection. Operator accounts
// are few; lookups scan the collection snapshot.
type OperatorRepository interface {
	GetByMail(ctx context.Context, mail string) (*domain.Operator, error)
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	Create(ctx context.Context, op domain.Operator) (string, error)
}

type operatorRepository struct {
	store docstore.Store
}

// NewOperatorRepository instantiates the repository.
func NewOperatorRepository(store docstore.Store) OperatorRepository {
	return &operatorRepository{store: store}
}

func (r *operatorRepository) GetByMail(ctx context.Context, mail string) (*domain.Operator, error) {
	docs, err := r.store.Load(ctx, docstore.CollectionOperators)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		op := decodeOperator(doc)
		if strings.EqualFold(op.Mail, mail) {
			return &op, nil
		}
	}
	return nil, docstore.ErrNotFound
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	docs, err := r.store.Load(ctx, docstore.CollectionOperators)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.ID() == id {
			op := decodeOperator(doc)
			return &op, nil
		}
	}
	return nil, docstore.ErrNotFound
}

func (r *operatorRepository) Create(ctx context.Context, op domain.Operator) (string, error) {
	payload := docstore.Document{
		"name":         op.Name,
		"mail":         op.Mail,
		"passwordHash": op.PasswordHash,
		"active":       op.Active,
		"createdAt":    time.Now(),
	}
	return r.store.Create(ctx, docstore.CollectionOperators, payload)
}
