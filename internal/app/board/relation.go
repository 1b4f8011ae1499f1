package board

// Relation is the caller's computed authorization class with respect to a
// board. It is derived per request from the caller identity and the board
// document, never persisted.
type Relation int

const (
	RelationNone Relation = iota
	RelationPublic
	RelationMember
	RelationOwner
)

func (r Relation) String() string {
	switch r {
	case RelationOwner:
		return "owner"
	case RelationMember:
		return "member"
	case RelationPublic:
		return "public"
	default:
		return "none"
	}
}

// Resolve computes the caller's relation to a board. An empty userID means
// anonymous. The owner is never also listed in members, so the checks are
// disjoint.
func Resolve(userID string, b *Board) Relation {
	switch {
	case b.IsOwner(userID):
		return RelationOwner
	case b.HasMember(userID):
		return RelationMember
	case b.IsPublic:
		return RelationPublic
	default:
		return RelationNone
	}
}

// Satisfies reports whether the relation meets one of the required levels.
// No required levels means any relation short of None is enough (the
// read-only wildcard, which public and anonymous access can satisfy).
// Owner satisfies a Member requirement; the converse never holds, and
// Public never satisfies an explicit level.
func (r Relation) Satisfies(required ...Relation) bool {
	if r == RelationNone {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, level := range required {
		if r == level {
			return true
		}
		if level == RelationMember && r == RelationOwner {
			return true
		}
	}
	return false
}
