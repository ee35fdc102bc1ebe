package routing

import (
	"tutor-cerdas-console/internal/entity"
)

// Console paths. /auth must stay reachable unconditionally when
// unauthenticated so redirects can never loop.
const (
	PathRoot  = "/"
	PathAuth  = "/auth"
	PathUser  = "/user"
	PathAdmin = "/admin"
)

type DecisionKind int

const (
	// DecisionWait: the session probe has not resolved; render the neutral
	// waiting placeholder and do not redirect yet.
	DecisionWait DecisionKind = iota
	// DecisionAllow: render the requested view.
	DecisionAllow
	// DecisionRedirect: navigate to Target instead.
	DecisionRedirect
)

// Decision is the tagged result of a guard evaluation. Guards are pure
// functions of AuthState plus static route configuration; the hosting router
// performs the actual navigation.
type Decision struct {
	Kind   DecisionKind
	Target string
}

func wait() Decision              { return Decision{Kind: DecisionWait} }
func allow() Decision             { return Decision{Kind: DecisionAllow} }
func redirect(to string) Decision { return Decision{Kind: DecisionRedirect, Target: to} }

// RoleHome maps a role to its default destination. Anything that is not an
// admin lands on the user home, including an unresolved role.
func RoleHome(role entity.UserRole) string {
	if role == entity.UserRoleAdmin {
		return PathAdmin
	}
	return PathUser
}

// RequireAuth is the authentication guard: wait while loading, send
// anonymous visitors to the login route (the attempted path is discarded),
// pass everyone else through.
func RequireAuth(st entity.AuthState) Decision {
	if st.Loading {
		return wait()
	}
	if st.User == nil {
		return redirect(PathAuth)
	}
	return allow()
}

// RequireRole is the role guard. A signed-in user whose role fetch has not
// landed yet waits; redirecting then could 303 a route to itself. A resolved
// role outside the allow-list is redirected to its own home rather than a
// dead-end forbidden page.
func RequireRole(st entity.AuthState, allowed ...entity.UserRole) Decision {
	if st.Loading {
		return wait()
	}
	if st.User != nil && st.Role == entity.RoleUnknown {
		return wait()
	}
	for _, r := range allowed {
		if st.Role == r {
			return allow()
		}
	}
	return redirect(RoleHome(st.Role))
}

// HomeRedirect decides the destination for the root path: login when
// anonymous, otherwise the role home. It never allows rendering in place.
func HomeRedirect(st entity.AuthState) Decision {
	if st.Loading {
		return wait()
	}
	if st.User == nil {
		return redirect(PathAuth)
	}
	return redirect(RoleHome(st.Role))
}
