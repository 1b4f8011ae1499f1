package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testBoard() *Board {
	return &Board{
		ID:      "b1",
		Name:    "Sprint",
		OwnerID: "u-owner",
		Members: StringList{"u-member"},
	}
}

func TestResolve(t *testing.T) {
	b := testBoard()

	assert.Equal(t, RelationOwner, Resolve("u-owner", b))
	assert.Equal(t, RelationMember, Resolve("u-member", b))
	assert.Equal(t, RelationNone, Resolve("u-stranger", b))
	assert.Equal(t, RelationNone, Resolve("", b))

	b.IsPublic = true
	assert.Equal(t, RelationPublic, Resolve("u-stranger", b))
	assert.Equal(t, RelationPublic, Resolve("", b))
	assert.Equal(t, RelationOwner, Resolve("u-owner", b))
}

func TestResolveAnonymousNeverOwnsOrJoins(t *testing.T) {
	// A board with empty owner or member entries must not grant anything
	// to anonymous callers.
	b := &Board{ID: "b2", OwnerID: "", Members: StringList{""}}
	assert.Equal(t, RelationNone, Resolve("", b))
}

func TestSatisfiesLattice(t *testing.T) {
	cases := []struct {
		name     string
		relation Relation
		required []Relation
		want     bool
	}{
		{"owner satisfies owner", RelationOwner, []Relation{RelationOwner}, true},
		{"owner satisfies member requirement", RelationOwner, []Relation{RelationMember}, true},
		{"owner satisfies member-or-owner", RelationOwner, []Relation{RelationMember, RelationOwner}, true},
		{"member satisfies member", RelationMember, []Relation{RelationMember}, true},
		{"member does not satisfy owner", RelationMember, []Relation{RelationOwner}, false},
		{"public never satisfies member", RelationPublic, []Relation{RelationMember, RelationOwner}, false},
		{"public never satisfies owner", RelationPublic, []Relation{RelationOwner}, false},
		{"public satisfies any", RelationPublic, nil, true},
		{"member satisfies any", RelationMember, nil, true},
		{"owner satisfies any", RelationOwner, nil, true},
		{"none satisfies nothing", RelationNone, nil, false},
		{"none does not satisfy owner", RelationNone, []Relation{RelationOwner}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.relation.Satisfies(tc.required...))
		})
	}
}

func TestRelationString(t *testing.T) {
	assert.Equal(t, "owner", RelationOwner.String())
	assert.Equal(t, "member", RelationMember.String())
	assert.Equal(t, "public", RelationPublic.String())
	assert.Equal(t, "none", RelationNone.String())
}
