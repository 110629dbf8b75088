package client

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// State is where the session is in its lifecycle. It starts Unknown, moves
// through Restoring while a persisted token is being verified, and settles
// in Authenticated or Anonymous.
type State int

const (
	StateUnknown State = iota
	StateRestoring
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "invalid"
}

// Identity is the server-confirmed view of who is signed in.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Navigator receives route changes driven by session transitions.
type Navigator interface {
	NavigateTo(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) NavigateTo(route string) { f(route) }

// ErrLoginSuperseded reports a login whose response arrived after the
// session had already moved on (a logout or a newer login). Its result is
// discarded.
var ErrLoginSuperseded = errors.New("login superseded by a newer session change")

// LoginForm is the credential payload for Login.
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupForm is the registration payload shared by all signup endpoints; the
// endpoint, not the form, determines the role.
type SignupForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Tags            string `json:"tags,omitempty"`
}

type loginPayload struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	UserID      string `json:"user_id"`
}

// Session owns the client-side auth state machine. All transitions are
// guarded by an epoch counter so that a slow network response can never
// resurrect a session the user has already left.
type Session struct {
	api   *Client
	creds *CredentialStore
	nav   Navigator

	mu       sync.Mutex
	state    State
	identity *Identity
	roleHint string
	epoch    uint64
}

func NewSession(api *Client, creds *CredentialStore, nav Navigator) *Session {
	s := &Session{
		api:   api,
		creds: creds,
		nav:   nav,
		state: StateUnknown,
	}
	api.OnSessionInvalidated(s.handleInvalidated)
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Role returns the best-known role: the confirmed identity's role once
// authenticated, or the persisted hint while restoring.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		return s.identity.Role
	}
	return s.roleHint
}

func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Restore settles the initial Unknown state. Without a persisted token the
// session is immediately Anonymous; with one, it enters Restoring and
// verifies the token against the server before trusting it.
func (s *Session) Restore() error {
	creds, err := s.creds.Load()
	if err != nil || creds.AccessToken == "" {
		s.mu.Lock()
		s.toAnonymousLocked()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.state = StateRestoring
	s.roleHint = creds.UserRole
	epoch := s.epoch
	s.mu.Unlock()

	var ident Identity
	verr := s.api.Get("/v1/auth/me", &ident)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// The session changed underneath the verification call; whoever
		// changed it owns the state now.
		return nil
	}

	if verr != nil {
		// A stored token the server rejects is worthless; drop it so the
		// next start goes straight to Anonymous. Connectivity failures get
		// the same treatment: an unverifiable session is no session.
		_ = s.creds.Clear()
		s.toAnonymousLocked()
		if IsKind(verr, KindAuthExpired) {
			return nil
		}
		return verr
	}

	s.state = StateAuthenticated
	s.identity = &ident
	s.roleHint = ident.Role
	// Re-persist with the server-confirmed role in case the stored hint
	// drifted.
	_ = s.creds.Save(Credentials{AccessToken: creds.AccessToken, UserRole: ident.Role})
	return nil
}

// Login exchanges credentials for a token, persists the token/role pair, and
// navigates to the role's dashboard. A login that resolves after a logout or
// a newer login is discarded and reported as ErrLoginSuperseded.
func (s *Session) Login(form LoginForm) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	var payload loginPayload
	if err := s.api.Post("/v1/auth/login", form, &payload); err != nil {
		return err
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrLoginSuperseded
	}
	if err := s.creds.Save(Credentials{AccessToken: payload.AccessToken, UserRole: payload.Role}); err != nil {
		s.toAnonymousLocked()
		s.mu.Unlock()
		return errors.Wrap(err, "persisting credentials")
	}
	s.state = StateAuthenticated
	// the login key is the email; normalized the way the server stores it
	s.identity = &Identity{ID: payload.UserID, Email: strings.ToLower(strings.TrimSpace(form.Username)), Role: payload.Role}
	s.roleHint = payload.Role
	route := DefaultRoute(payload.Role)
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.NavigateTo(route)
	}
	return nil
}

// Logout tears the session down unconditionally: it cannot fail and is
// idempotent. The epoch bump invalidates any in-flight login or restore.
func (s *Session) Logout() {
	s.mu.Lock()
	s.epoch++
	s.toAnonymousLocked()
	s.mu.Unlock()

	_ = s.creds.Clear()
	if s.nav != nil {
		s.nav.NavigateTo(RouteLogin)
	}
}

// IsAuthenticated requires both an in-memory identity and a persisted token.
// If the two disagree on an established session it is in a half-state
// nothing should trust, so it is forced down to a clean Anonymous. Before
// restoration has settled (Unknown/Restoring) a token without an identity
// is the expected shape, not divergence.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	state := s.state
	hasIdentity := state == StateAuthenticated && s.identity != nil
	s.mu.Unlock()

	if state == StateUnknown || state == StateRestoring {
		return false
	}

	hasToken := s.creds.HasToken()
	if hasIdentity && hasToken {
		return true
	}
	if hasIdentity != hasToken {
		s.Logout()
	}
	return false
}

// RegisterStudent signs up a new student account and routes to login on
// success; the new user signs in explicitly.
func (s *Session) RegisterStudent(form SignupForm) error {
	return s.register("/v1/auth/student/signup", form)
}

func (s *Session) RegisterRecruiter(form SignupForm) error {
	return s.register("/v1/auth/recruiter/signup", form)
}

func (s *Session) RegisterMentor(form SignupForm) error {
	return s.register("/v1/auth/mentor/signup", form)
}

func (s *Session) register(path string, form SignupForm) error {
	if err := s.api.Post(path, form, nil); err != nil {
		return err
	}
	if s.nav != nil {
		s.nav.NavigateTo(RouteLogin)
	}
	return nil
}

// handleInvalidated runs when any API call hits an expired or revoked token.
// The client has already cleared the credential store.
func (s *Session) handleInvalidated() {
	s.mu.Lock()
	s.epoch++
	s.toAnonymousLocked()
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.NavigateTo(RouteLogin)
	}
}

func (s *Session) toAnonymousLocked() {
	s.state = StateAnonymous
	s.identity = nil
	s.roleHint = ""
}
