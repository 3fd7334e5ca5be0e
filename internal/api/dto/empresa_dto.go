package dto

// CreateEmpresaRequest registers a client company.
type CreateEmpresaRequest struct {
	Nombre string `json:"nombre" validate:"required"`
	Pais   string `json:"pais"`
}

// UpdateEmpresaRequest edits a company; nil fields stay untouched.
type UpdateEmpresaRequest struct {
	Nombre *string `json:"nombre"`
	Pais   *string `json:"pais"`
}

// EmpresaResponse is the company view.
type EmpresaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Pais   string `json:"pais,omitempty"`
}
