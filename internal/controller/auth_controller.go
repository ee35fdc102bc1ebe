package controller

import (
	"time"

	"tutor-cerdas-console/internal/dto"
	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/pkg/serverutils"
	"tutor-cerdas-console/internal/routing"
	"tutor-cerdas-console/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Page(ctx *fiber.Ctx) error
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service  service.IAuthService
	validate *validator.Validate
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	g := r.Group(routing.PathAuth)
	g.Get("/", c.Page)
	g.Post("/register", c.Register)
	g.Post("/login", c.Login)
	g.Post("/logout", c.Logout)
}

// Page is reachable unconditionally when unauthenticated, which is what
// keeps the guard redirects loop-free. A signed-in visitor with a resolved
// role is sent to their home instead.
func (c *authController) Page(ctx *fiber.Ctx) error {
	st := serverutils.AuthStateFromCtx(ctx)
	if st.User != nil && st.Role != entity.RoleUnknown {
		return ctx.Redirect(routing.RoleHome(st.Role), fiber.StatusSeeOther)
	}
	return serverutils.OK(ctx, "sign in to Tutor Cerdas", dto.AuthPageResponse{Page: "auth"})
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "invalid request body")
	}
	if err := c.validate.Struct(&req); err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, err.Error())
	}
	return serverutils.OK(ctx, "registered; check your inbox if email confirmation is enabled", res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "invalid request body")
	}
	if err := c.validate.Struct(&req); err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusUnauthorized, err.Error())
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.SessionCookie,
		Value:    res.SessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return serverutils.OK(ctx, "login successful", res)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	sid := ctx.Cookies(serverutils.SessionCookie)
	c.service.Logout(ctx.Context(), sid)

	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return serverutils.OK[interface{}](ctx, "signed out", nil)
}
