package auth

import "github.com/julianstephens/smarthabit/internal/constants"

// Resolve maps a requested route to the one actually shown. Unknown routes
// behave like the root. There is no return-to path after login.
func Resolve(route constants.Route, authed bool) constants.Route {
	switch route {
	case constants.RouteLogin:
		return constants.RouteLogin
	case constants.RouteRegister:
		if authed {
			return constants.RouteDashboard
		}
		return constants.RouteRegister
	case constants.RouteDashboard:
		if !authed {
			return constants.RouteLogin
		}
		return constants.RouteDashboard
	default:
		if authed {
			return constants.RouteDashboard
		}
		return constants.RouteLogin
	}
}

// Guard resolves a route against the current state of c.
func (c *Context) Guard(route constants.Route) constants.Route {
	return Resolve(route, c.Authenticated())
}
