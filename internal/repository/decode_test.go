package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
)

func TestDecodeTicketTolerantFields(t *testing.T) {
	doc := docstore.Document{
		"id":          "t1",
		"uid":         "u1",
		"state":       float64(3), // JSON numbers decode as float64
		"date":        "2024-03-15T10:30:00Z",
		"description": "delicados",
		"items": map[string]any{
			"camisa":   float64(2),
			"pantalon": json.Number("1"),
			"basura":   "three", // non-numeric quantities are dropped
		},
	}

	ticket := decodeTicket(doc)

	assert.Equal(t, "t1", ticket.ID)
	assert.Equal(t, "u1", ticket.UID)
	assert.Equal(t, domain.TicketStateReady, ticket.State)
	assert.Equal(t, map[string]int{"camisa": 2, "pantalon": 1}, ticket.Items)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), domain.CoerceTime(ticket.Date))
	assert.Nil(t, ticket.UpdatedAt)
}

func TestDecodeTicketMissingFields(t *testing.T) {
	ticket := decodeTicket(docstore.Document{"id": "t1"})

	assert.Equal(t, "t1", ticket.ID)
	assert.Equal(t, domain.TicketState(0), ticket.State)
	assert.False(t, ticket.HasDate())
	assert.Nil(t, ticket.Items)
}

func TestDecodeUserDNIRepresentations(t *testing.T) {
	cases := map[string]struct {
		raw  any
		want string
	}{
		"string":           {"12.345.678", "12345678"},
		"legacy float":     {float64(12345678), "12345678"},
		"int":              {12345678, "12345678"},
		"json number":      {json.Number("12345678"), "12345678"},
		"unusable shape":   {[]string{"123"}, ""},
		"missing entirely": {nil, ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			user := decodeUser(docstore.Document{"id": "u1", "dni": tc.raw})
			assert.Equal(t, tc.want, user.DNI)
		})
	}
}

func TestDecodeUserTickets(t *testing.T) {
	user := decodeUser(docstore.Document{
		"id":      "u1",
		"tickets": []any{"t1", "t2", 42},
	})
	assert.Equal(t, []string{"t1", "t2"}, user.Tickets)

	user = decodeUser(docstore.Document{
		"id":      "u1",
		"tickets": []string{"t3"},
	})
	assert.Equal(t, []string{"t3"}, user.Tickets)
}

func TestDecodeOperator(t *testing.T) {
	op := decodeOperator(docstore.Document{
		"id":           "op1",
		"name":         "Marta",
		"mail":         "marta@example.com",
		"passwordHash": "$2a$12$hash",
		"active":       true,
	})

	assert.Equal(t, "op1", op.ID)
	assert.True(t, op.Active)
	assert.Equal(t, domain.Epoch(), op.CreatedAt)
}
