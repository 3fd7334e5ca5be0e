package repository

import (
	"context"
	"time"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
)

// CompanyPatch carries the editable company fields.
type CompanyPatch struct {
	Nombre *string
	Pais   *string
}

// CompanyRepository encapsulates the empresas collection.
type CompanyRepository interface {
	Subscribe(ctx context.Context, onSnapshot func([]domain.Company), onError docstore.ErrorFunc) (docstore.UnsubscribeFunc, error)
	Load(ctx context.Context) ([]domain.Company, error)
	Create(ctx context.Context, company domain.Company) (string, error)
	Patch(ctx context.Context, id string, patch CompanyPatch) error
	Delete(ctx context.Context, id string) error
}

type companyRepository struct {
	store docstore.Store
}

// NewCompanyRepository instantiates the repository.
func NewCompanyRepository(store docstore.Store) CompanyRepository {
	return &companyRepository{store: store}
}

func (r *companyRepository) Subscribe(ctx context.Context, onSnapshot func([]domain.Company), onError docstore.ErrorFunc) (docstore.UnsubscribeFunc, error) {
	return r.store.Subscribe(ctx, docstore.CollectionEmpresas, func(docs []docstore.Document) {
		companies := make([]domain.Company, 0, len(docs))
		for _, doc := range docs {
			companies = append(companies, decodeCompany(doc))
		}
		onSnapshot(companies)
	}, onError)
}

func (r *companyRepository) Load(ctx context.Context) ([]domain.Company, error) {
	docs, err := r.store.Load(ctx, docstore.CollectionEmpresas)
	if err != nil {
		return nil, err
	}
	companies := make([]domain.Company, 0, len(docs))
	for _, doc := range docs {
		companies = append(companies, decodeCompany(doc))
	}
	return companies, nil
}

func (r *companyRepository) Create(ctx context.Context, company domain.Company) (string, error) {
	payload := docstore.Document{
		"nombre":    company.Nombre,
		"pais":      company.Pais,
		"createdAt": time.Now(),
		"updatedAt": time.Now(),
	}
	return r.store.Create(ctx, docstore.CollectionEmpresas, payload)
}

func (r *companyRepository) Patch(ctx context.Context, id string, patch CompanyPatch) error {
	doc := docstore.Document{"updatedAt": time.Now()}
	if patch.Nombre != nil {
		// Users carry a copy of the old name; renaming here does not
		// rewrite their originCompany field.
		doc["nombre"] = *patch.Nombre
	}
	if patch.Pais != nil {
		doc["pais"] = *patch.Pais
	}
	return r.store.Update(ctx, docstore.CollectionEmpresas, id, doc)
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionEmpresas, id)
}
