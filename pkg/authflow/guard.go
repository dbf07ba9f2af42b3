package authflow

// Well-known view routes.
const (
	LoginRoute = "/"
	AdminHome  = "/admin"
	UserHome   = "/user"
)

// DecisionKind is the three-way outcome of a route-guard check.
type DecisionKind int

const (
	// DecisionServe means the requested view may render.
	DecisionServe DecisionKind = iota
	// DecisionRedirect means navigation must move to Target instead.
	DecisionRedirect
	// DecisionPending means the role is still resolving; render a
	// loading affordance, neither serve nor redirect.
	DecisionPending
)

// RouteDecision is the result of a single guard evaluation. Decisions
// are computed fresh on every navigation attempt and never cached.
type RouteDecision struct {
	Kind   DecisionKind
	Target string
}

// HomeFor maps a resolved role to its dashboard route.
func HomeFor(role Role) string {
	if role == RoleAdmin {
		return AdminHome
	}
	return UserHome
}

// Decide gates a view by session presence and resolved role. required
// is the role a view demands, or the zero Role for views that only need
// an authenticated session.
//
// A logged-in user with the wrong role is redirected to the dashboard
// matching their actual role, never back to the login screen. A
// logged-in user whose role has not resolved yet gets Pending, which
// prevents a flash-redirect during the resolver's asynchronous window.
func Decide(sessionPresent bool, role, required Role) RouteDecision {
	if !sessionPresent {
		return RouteDecision{Kind: DecisionRedirect, Target: LoginRoute}
	}
	if required == "" {
		return RouteDecision{Kind: DecisionServe}
	}
	if !role.Known() {
		return RouteDecision{Kind: DecisionPending}
	}
	if role != required {
		return RouteDecision{Kind: DecisionRedirect, Target: HomeFor(role)}
	}
	return RouteDecision{Kind: DecisionServe}
}
