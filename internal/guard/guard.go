package guard

import "github.com/angelmondragon/marketplace-backend/pkg/enums"

// Outcome is the result of evaluating a navigation.
type Outcome string

const (
	OutcomeLoading         Outcome = "loading"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeForbidden       Outcome = "forbidden"
	OutcomeAllowed         Outcome = "allowed"
	OutcomePublic          Outcome = "public"
	OutcomeNotFound        Outcome = "not_found"
)

// Viewer is the slice of session state the guard reads.
type Viewer struct {
	Loading       bool
	Authenticated bool
	Role          enums.Role
}

// Decision tells the caller what to render or where to go. From carries the
// attempted path on unauthenticated redirects so login can return there.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Path     string  `json:"path"`
	Redirect string  `json:"redirect,omitempty"`
	From     string  `json:"from,omitempty"`
}

// Renders reports whether the requested content may be shown.
func (d Decision) Renders() bool {
	return d.Outcome == OutcomeAllowed || d.Outcome == OutcomePublic
}

// Guard evaluates navigations against a route table.
type Guard struct {
	routes []Route
}

// New builds a guard over routes, or DefaultRoutes when none are given.
func New(routes ...Route) *Guard {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	return &Guard{routes: append([]Route(nil), routes...)}
}

// Routes returns the route table.
func (g *Guard) Routes() []Route {
	return append([]Route(nil), g.routes...)
}

// Lookup finds the route matching path.
func (g *Guard) Lookup(path string) (Route, bool) {
	path = CleanPath(path)
	for _, route := range g.routes {
		if match(route.Path, path) {
			return route, true
		}
	}
	return Route{}, false
}

// Evaluate projects viewer state onto a navigation to path.
func (g *Guard) Evaluate(viewer Viewer, path string) Decision {
	path = CleanPath(path)
	route, ok := g.Lookup(path)
	if !ok {
		return Decision{Outcome: OutcomeNotFound, Path: path, Redirect: PathHome}
	}
	if route.Public() {
		return Decision{Outcome: OutcomePublic, Path: path}
	}
	return Authorize(viewer, path, route.Roles)
}

// Authorize applies the protected-route rules for an explicit role set.
func Authorize(viewer Viewer, path string, roles []enums.Role) Decision {
	switch {
	case viewer.Loading:
		return Decision{Outcome: OutcomeLoading, Path: path}
	case !viewer.Authenticated:
		return Decision{Outcome: OutcomeUnauthenticated, Path: path, Redirect: PathLogin, From: path}
	case !(Route{Roles: roles}).Allows(viewer.Role):
		return Decision{Outcome: OutcomeForbidden, Path: path, Redirect: PathDashboard}
	default:
		return Decision{Outcome: OutcomeAllowed, Path: path}
	}
}
