package guard

import (
	"strings"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Landing paths used by redirects.
const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Route is a view path and the roles allowed to open it. A route with no
// roles is public.
type Route struct {
	Path  string       `json:"path"`
	Roles []enums.Role `json:"roles"`
}

// Public reports whether the route is open to everyone.
func (r Route) Public() bool {
	return len(r.Roles) == 0
}

// Allows reports whether role may open the route.
func (r Route) Allows(role enums.Role) bool {
	for _, candidate := range r.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

var (
	bothRoles  = []enums.Role{enums.RoleBuyer, enums.RoleVendor}
	buyerOnly  = []enums.Role{enums.RoleBuyer}
	vendorOnly = []enums.Role{enums.RoleVendor}
)

// DefaultRoutes is the marketplace view table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/"},
		{Path: "/login"},
		{Path: "/register"},
		{Path: "/dashboard", Roles: bothRoles},
		{Path: "/products", Roles: bothRoles},
		{Path: "/products/:id", Roles: bothRoles},
		{Path: "/add-product", Roles: vendorOnly},
		{Path: "/orders", Roles: buyerOnly},
		{Path: "/cart", Roles: buyerOnly},
		{Path: "/notifications", Roles: bothRoles},
	}
}

// match compares a concrete path against a pattern with :param segments.
func match(pattern, path string) bool {
	patternParts := splitPath(pattern)
	pathParts := splitPath(path)
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// CleanPath drops the query/fragment and trailing slashes from a view path.
func CleanPath(path string) string {
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathHome
		}
	}
	return path
}

// SafeReturnPath returns the cleaned path when it names a protected view,
// or empty. Anything else (auth pages, unknown or protocol-relative paths)
// must not be used as a post-login redirect.
func SafeReturnPath(path string) string {
	if strings.TrimSpace(path) == "" || strings.HasPrefix(path, "//") {
		return ""
	}
	path = CleanPath(path)
	for _, route := range DefaultRoutes() {
		if !route.Public() && match(route.Path, path) {
			return path
		}
	}
	return ""
}
