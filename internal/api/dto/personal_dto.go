package dto

// CreatePersonalRequest registers a new customer. EmpresaID resolves to the
// company whose name gets copied onto the record.
type CreatePersonalRequest struct {
	Name        string `json:"name" validate:"required"`
	Lastname    string `json:"lastname" validate:"required"`
	DNI         string `json:"dni" validate:"required"`
	Mail        string `json:"mail" validate:"omitempty,email"`
	Nationality string `json:"nationality"`
	EmpresaID   string `json:"empresa_id"`
}

// UpdatePersonalRequest edits a customer; nil fields stay untouched.
type UpdatePersonalRequest struct {
	Name          *string `json:"name"`
	Lastname      *string `json:"lastname"`
	DNI           *string `json:"dni"`
	Mail          *string `json:"mail" validate:"omitempty,email"`
	Nationality   *string `json:"nationality"`
	OriginCompany *string `json:"origin_company"`
}

// PersonalResponse is the customer view.
type PersonalResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Lastname      string   `json:"lastname"`
	DNI           string   `json:"dni"`
	Mail          string   `json:"mail,omitempty"`
	Nationality   string   `json:"nationality,omitempty"`
	OriginCompany string   `json:"origin_company,omitempty"`
	Tickets       []string `json:"tickets,omitempty"`
}
