package domain

import "strings"

// User is a registered laundry customer. OriginCompany is a denormalized copy
// of the company name taken at registration time; renaming the company later
// does not rewrite it.
type User struct {
	ID            string
	Name          string
	Lastname      string
	DNI           string
	Mail          string
	Nationality   string
	OriginCompany string
	Tickets       []string
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Lastname)
}

// NormalizeDNI strips everything but decimal digits. The result is the
// lookup key that matches ticket creation to a customer.
func NormalizeDNI(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
