package famsdk

import "time"

// ============================================================================
// Wire Types
// ============================================================================

// User is the account shape returned by the API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	FamilyID  *string   `json:"familyId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is a user as seen in a family member list. It never carries
// credentials or other private account fields.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Family is a family with its resolved member list.
type Family struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	FamilyCode  string    `json:"familyCode"`
	MemberCount int       `json:"memberCount"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Snapshot is the canonical {user, family} pair returned by GET /api/auth/me
// and by every membership mutation. Family is null while the user belongs to
// no family.
type Snapshot struct {
	User   User    `json:"user"`
	Family *Family `json:"family"`
}

// ============================================================================
// Request Types
// ============================================================================

// RegisterRequest creates an account. FamilyCode is optional; when set the
// account joins that family atomically with its creation.
type RegisterRequest struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone,omitempty"`
	Password   string  `json:"password"`
	FamilyCode string  `json:"familyCode,omitempty"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateFamilyRequest creates a new family owned by the caller.
type CreateFamilyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// JoinFamilyRequest joins the family matching the code.
type JoinFamilyRequest struct {
	FamilyCode string `json:"familyCode"`
}

// ChangeRoleRequest sets a member's role ("admin" or "member").
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Response Types
// ============================================================================

// AuthResponse is returned by register and login: a session token plus the
// fresh membership snapshot.
type AuthResponse struct {
	Token  string  `json:"token"`
	User   User    `json:"user"`
	Family *Family `json:"family"`
}

// CodePreview is returned by the code validation endpoint: enough to show
// "you are about to join the Smiths (3 members)" without joining.
type CodePreview struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"memberCount"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageResponse is returned by operations with no payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// ErrorResponse is the wire shape of every API error.
type ErrorResponse struct {
	// Error is a stable machine-readable code, e.g. "already_in_family".
	Error string `json:"error"`

	// Message is a human-readable description safe to surface in the UI.
	Message string `json:"message,omitempty"`

	// Family is attached to "already_in_family" errors so the client can
	// resync instead of guessing.
	Family *Family `json:"family,omitempty"`
}
