package domain

// Navigation targets.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// SessionBlobKey is the storage key of the persisted session.
const SessionBlobKey = "smartmed_user"

// Session is the signed-in doctor of one browser context.
type Session struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// AuthState is the lifecycle state of a session store.
type AuthState string

const (
	StateUninitialized AuthState = "UNINITIALIZED"
	StateLoading       AuthState = "LOADING"
	StateAuthenticated AuthState = "AUTHENTICATED"
	StateAnonymous     AuthState = "ANONYMOUS"
)

// validTransitions is the session state machine. Signing in again while
// authenticated replaces the session.
var validTransitions = map[AuthState][]AuthState{
	StateUninitialized: {StateLoading},
	StateLoading:       {StateAuthenticated, StateAnonymous},
	StateAuthenticated: {StateAnonymous, StateAuthenticated},
	StateAnonymous:     {StateAuthenticated},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s AuthState) CanTransitionTo(next AuthState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Resolved reports whether initialization has finished.
func (s AuthState) Resolved() bool {
	return s == StateAuthenticated || s == StateAnonymous
}

// Transition is what subscribers of a session store observe. Redirect is the
// navigation target the change implies, empty when there is none. Previous
// is the session the change replaced. Recovered carries an error the store
// absorbed on the way, such as a corrupt blob.
type Transition struct {
	From      AuthState
	To        AuthState
	Session   *Session
	Previous  *Session
	Redirect  string
	Recovered error
}
