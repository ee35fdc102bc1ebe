package serverutils

import (
	"tutor-cerdas-console/internal/auth"
	"tutor-cerdas-console/internal/dto"
	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/routing"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the only thing the browser holds.
const SessionCookie = "tc_session"

const (
	localAuthState   = "auth_state"
	localAccessToken = "access_token"
)

// AuthStateMiddleware resolves the request's AuthState from the session
// cookie and stashes it for the guards and handlers downstream. Requests
// without a live session get the anonymous state.
func AuthStateMiddleware(resolvers *auth.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		state := entity.AuthState{}
		token := ""
		if sid := ctx.Cookies(SessionCookie); sid != "" {
			if r := resolvers.For(sid); r != nil {
				state = r.State()
				token = r.AccessToken()
			}
		}
		ctx.Locals(localAuthState, state)
		ctx.Locals(localAccessToken, token)
		return ctx.Next()
	}
}

func AuthStateFromCtx(ctx *fiber.Ctx) entity.AuthState {
	if st, ok := ctx.Locals(localAuthState).(entity.AuthState); ok {
		return st
	}
	return entity.AuthState{}
}

func AccessTokenFromCtx(ctx *fiber.Ctx) string {
	if tok, ok := ctx.Locals(localAccessToken).(string); ok {
		return tok
	}
	return ""
}

// ApplyDecision translates a guard decision: wait renders the neutral
// loading payload, redirect navigates, allow falls through to the handler.
func ApplyDecision(ctx *fiber.Ctx, d routing.Decision) error {
	switch d.Kind {
	case routing.DecisionWait:
		return OK(ctx, "loading", dto.LoadingResponse{Status: "loading"})
	case routing.DecisionRedirect:
		return ctx.Redirect(d.Target, fiber.StatusSeeOther)
	default:
		return ctx.Next()
	}
}

// Authenticated gates a route on the authentication guard.
func Authenticated() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ApplyDecision(ctx, routing.RequireAuth(AuthStateFromCtx(ctx)))
	}
}

// AllowRoles gates a route on the role guard with a static allow-list.
func AllowRoles(allowed ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ApplyDecision(ctx, routing.RequireRole(AuthStateFromCtx(ctx), allowed...))
	}
}
