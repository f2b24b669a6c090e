package domain

import "time"

// Family code format: exactly CodeLength characters drawn from CodeAlphabet.
// Codes are compared case-insensitively and stored uppercased.
const (
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength   = 8
)

type Family struct {
	ID          string
	Name        string
	Description *string
	FamilyCode  string // immutable once assigned, globally unique
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FamilyView is a Family together with its resolved member list, the shape
// membership operations return to clients.
type FamilyView struct {
	Family
	Members []Member
}

// MemberCount is derived from the member list; members own the relation.
func (v FamilyView) MemberCount() int { return len(v.Members) }

// Snapshot is the canonical {user, family} pair returned by the
// reconciliation fetch. Family is nil when the user belongs to no family.
type Snapshot struct {
	User   User
	Family *FamilyView
}
