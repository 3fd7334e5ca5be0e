package domain

// Company is a client company customers belong to. Users reference it by
// name, not id; see User.OriginCompany.
type Company struct {
	ID     string
	Nombre string
	Pais   string
}
