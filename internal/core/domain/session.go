package domain

import "time"

// SessionState is the per-app authentication state.
type SessionState string

const (
	StateAnonymous      SessionState = "ANONYMOUS"
	StateAuthenticating SessionState = "AUTHENTICATING"
	StateAuthenticated  SessionState = "AUTHENTICATED"
)

var sessionTransitions = map[SessionState][]SessionState{
	StateAnonymous:      {StateAuthenticating, StateAuthenticated},
	StateAuthenticating: {StateAuthenticated, StateAnonymous},
	StateAuthenticated:  {StateAnonymous},
}

// CanTransitionTo reports whether a session may move from s to next.
// Anonymous → Authenticated is the rehydration path.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TokenPair is what the backend issues in exchange for an identity token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

// Session is the single live session of an app instance.
type Session struct {
	State         SessionState
	IdentityToken string
	AccessToken   string
	RefreshToken  string
	User          *User
}

// Snapshot is the externally visible view of a session.
type Snapshot struct {
	State   SessionState `json:"state"`
	User    *User        `json:"user,omitempty"`
	Landing string       `json:"landing"`
}

// Snapshot returns a copy safe to hand to other goroutines.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{State: s.State, Landing: RouteLogin}
	if s.User != nil {
		u := *s.User
		snap.User = &u
		if s.State == StateAuthenticated {
			snap.Landing = LandingRoute(u.Role)
		}
	}
	return snap
}

// SessionEvent records one state transition for the audit trail.
type SessionEvent struct {
	ID        string       `json:"id" bson:"_id"`
	App       string       `json:"app" bson:"app"`
	From      SessionState `json:"from" bson:"from"`
	To        SessionState `json:"to" bson:"to"`
	Reason    string       `json:"reason" bson:"reason"`
	UserID    int64        `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Role      Role         `json:"role,omitempty" bson:"role,omitempty"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
}
