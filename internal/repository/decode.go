package repository

import (
	"encoding/json"
	"strconv"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
)

// Documents arrive as loosely typed JSON maps; decoding is tolerant and
// degrades field by field instead of rejecting whole documents.

func decodeTicket(doc docstore.Document) domain.Ticket {
	ticket := domain.Ticket{ID: doc.ID()}
	ticket.UID, _ = doc["uid"].(string)
	if state, ok := asInt(doc["state"]); ok {
		ticket.State = domain.TicketState(state)
	}
	ticket.Date = doc["date"]
	ticket.UpdatedAt = doc["updatedAt"]
	ticket.Description, _ = doc["description"].(string)
	ticket.Items = decodeItems(doc["items"])
	return ticket
}

func decodeUser(doc docstore.Document) domain.User {
	user := domain.User{ID: doc.ID()}
	user.Name, _ = doc["name"].(string)
	user.Lastname, _ = doc["lastname"].(string)
	user.DNI = decodeDNI(doc["dni"])
	user.Mail, _ = doc["mail"].(string)
	user.Nationality, _ = doc["nationality"].(string)
	user.OriginCompany, _ = doc["originCompany"].(string)
	if raw, ok := doc["tickets"].([]any); ok {
		for _, entry := range raw {
			if id, ok := entry.(string); ok {
				user.Tickets = append(user.Tickets, id)
			}
		}
	} else if ids, ok := doc["tickets"].([]string); ok {
		user.Tickets = append(user.Tickets, ids...)
	}
	return user
}

func decodeCompany(doc docstore.Document) domain.Company {
	company := domain.Company{ID: doc.ID()}
	company.Nombre, _ = doc["nombre"].(string)
	company.Pais, _ = doc["pais"].(string)
	return company
}

func decodeOperator(doc docstore.Document) domain.Operator {
	op := domain.Operator{ID: doc.ID()}
	op.Name, _ = doc["name"].(string)
	op.Mail, _ = doc["mail"].(string)
	op.PasswordHash, _ = doc["passwordHash"].(string)
	if active, ok := doc["active"].(bool); ok {
		op.Active = active
	}
	op.CreatedAt = domain.CoerceTime(doc["createdAt"])
	return op
}

// decodeDNI accepts the legacy numeric representation as well as strings and
// normalizes to digits only.
func decodeDNI(v any) string {
	switch dni := v.(type) {
	case string:
		return domain.NormalizeDNI(dni)
	case float64:
		return strconv.FormatInt(int64(dni), 10)
	case int:
		return strconv.Itoa(dni)
	case int64:
		return strconv.FormatInt(dni, 10)
	case json.Number:
		return domain.NormalizeDNI(dni.String())
	default:
		return ""
	}
}

// decodeItems keeps only entries with a usable numeric quantity.
func decodeItems(v any) map[string]int {
	switch raw := v.(type) {
	case map[string]int:
		items := make(map[string]int, len(raw))
		for k, qty := range raw {
			items[k] = qty
		}
		return items
	case map[string]any:
		items := make(map[string]int, len(raw))
		for k, entry := range raw {
			if qty, ok := asInt(entry); ok {
				items[k] = qty
			}
		}
		return items
	default:
		return nil
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
