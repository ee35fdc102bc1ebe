package controller

import (
	"tutor-cerdas-console/internal/dto"
	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/pkg/serverutils"
	"tutor-cerdas-console/internal/routing"

	"github.com/gofiber/fiber/v2"
)

type IConsoleController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	UserHome(ctx *fiber.Ctx) error
	AdminHome(ctx *fiber.Ctx) error
}

// consoleController owns the role-gated pages. The guard chain runs as
// middleware; the handlers only render.
type consoleController struct{}

func NewConsoleController() IConsoleController {
	return &consoleController{}
}

func (c *consoleController) RegisterRoutes(r fiber.Router) {
	r.Get(routing.PathRoot, c.Root)
	r.Get(routing.PathUser,
		serverutils.Authenticated(),
		serverutils.AllowRoles(entity.UserRoleUser),
		c.UserHome)
	r.Get(routing.PathAdmin,
		serverutils.Authenticated(),
		serverutils.AllowRoles(entity.UserRoleAdmin),
		c.AdminHome)
}

// Root never renders in place; it collapses the guard chain into a single
// redirect decision.
func (c *consoleController) Root(ctx *fiber.Ctx) error {
	return serverutils.ApplyDecision(ctx, routing.HomeRedirect(serverutils.AuthStateFromCtx(ctx)))
}

func (c *consoleController) UserHome(ctx *fiber.Ctx) error {
	st := serverutils.AuthStateFromCtx(ctx)
	return serverutils.OK(ctx, "user dashboard", dto.ConsolePageResponse{
		Page:  "user",
		Email: st.User.Email,
		Role:  st.Role,
	})
}

func (c *consoleController) AdminHome(ctx *fiber.Ctx) error {
	st := serverutils.AuthStateFromCtx(ctx)
	return serverutils.OK(ctx, "admin dashboard", dto.ConsolePageResponse{
		Page:  "admin",
		Email: st.User.Email,
		Role:  st.Role,
	})
}
