package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

func testContacts() []model.ContactView {
	return []model.ContactView{
		{Contact: model.Contact{ID: "1", Name: "Jane Doe", Reason: "met at GopherCon"}},
		{Contact: model.Contact{ID: "2", Name: "John Roe", Reason: "neighbour"},
			Circles: []model.CircleRef{{ID: "k1", Name: "Running Club"}}},
		{Contact: model.Contact{ID: "3", Name: "Ada", Reason: "mentor"}},
	}
}

func ids(contacts []model.ContactView) []string {
	out := []string{}
	for _, c := range contacts {
		out = append(out, c.ID)
	}
	return out
}

// TestBlankQueryIsIdentity checks that an empty or whitespace query returns the very same slice.
func TestBlankQueryIsIdentity(t *testing.T) {
	contacts := testContacts()
	for _, q := range []string{"", "   ", "\t"} {
		result := Contacts(contacts, q)
		assert.Equal(t, contacts, result)
		assert.Same(t, &contacts[0], &result[0])
	}
}

// TestMatchFields checks that name, reason and circle names are searched without regard to case.
func TestMatchFields(t *testing.T) {
	contacts := testContacts()
	tests := []struct {
		query string
		want  []string
	}{
		{"jane", []string{"1"}},
		{"GOPHER", []string{"1"}},
		{"club", []string{"2"}},
		{"o", []string{"1", "2", "3"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Contacts(contacts, tt.query)))
		})
	}
}

// TestInputUnchanged checks that filtering does not touch the input.
func TestInputUnchanged(t *testing.T) {
	contacts := testContacts()
	before := testContacts()
	_ = Contacts(contacts, "jane")
	assert.Equal(t, before, contacts)
}
