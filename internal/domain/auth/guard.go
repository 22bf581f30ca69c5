package auth

// DecisionKind enumerates the outcomes of a route authorization check.
type DecisionKind int

const (
	// DecisionWait means the session is still pending; render a loading
	// indicator and perform no redirect.
	DecisionWait DecisionKind = iota
	// DecisionAllow means the guarded subtree may render.
	DecisionAllow
	// DecisionLogin means redirect to the login entry point.
	DecisionLogin
	// DecisionRoleHome means redirect to the home route of Decision.Role.
	DecisionRoleHome
)

// Decision is the ephemeral authorization outcome for one guard evaluation.
type Decision struct {
	Kind DecisionKind
	Role Role // set for DecisionRoleHome
}

// Redirect returns the navigation target for redirecting decisions.
func (d Decision) Redirect() (string, bool) {
	switch d.Kind {
	case DecisionLogin:
		return LoginRoute, true
	case DecisionRoleHome:
		return HomeRoute(d.Role), true
	default:
		return "", false
	}
}

// Guard gates rendering of one mounted subtree behind an authentication and
// optional role check. It is a small state machine:
//
//	Init -> Waiting (session pending) -> Decided
//
// Decided is terminal for an unchanged outcome: Evaluate reports apply=false
// for repeat evaluations that resolve to the same decision, so a redirect is
// issued at most once per resolved state. A session transition that changes
// the outcome re-enters evaluation and applies the new decision.
//
// Guard is not safe for concurrent use; one instance belongs to one mount.
type Guard struct {
	required map[Role]struct{}
	decided  bool
	last     Decision
}

// NewGuard creates a guard requiring any of the given roles.
// With no required roles the guard checks authentication only.
func NewGuard(required ...Role) *Guard {
	g := &Guard{}
	if len(required) > 0 {
		g.required = make(map[Role]struct{}, len(required))
		for _, r := range required {
			g.required[r] = struct{}{}
		}
	}
	return g
}

// Evaluate computes the authorization decision for the current session state.
// The second return value reports whether the caller should act on the
// decision now; duplicate redirects for an unchanged outcome are suppressed.
func (g *Guard) Evaluate(s Session) (Decision, bool) {
	if s.State == StatePending || s.State == "" {
		// Waiting: no decision while validation is in flight. The previous
		// decision is kept so an unchanged outcome stays suppressed after
		// the session resolves again.
		return Decision{Kind: DecisionWait}, false
	}

	d := g.outcome(s)
	if g.decided && d == g.last {
		return d, false
	}
	g.decided = true
	g.last = d
	return d, true
}

func (g *Guard) outcome(s Session) Decision {
	if !s.Authenticated() {
		return Decision{Kind: DecisionLogin}
	}
	if len(g.required) == 0 {
		return Decision{Kind: DecisionAllow}
	}

	role := s.Identity.Role
	if !role.Valid() {
		// Outside the closed enumeration: no access to any role-gated
		// subtree, and no home route to fall back to.
		return Decision{Kind: DecisionLogin}
	}
	if _, ok := g.required[role]; ok {
		return Decision{Kind: DecisionAllow}
	}
	return Decision{Kind: DecisionRoleHome, Role: role}
}
