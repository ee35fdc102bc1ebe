package controller

import (
	"errors"
	"strconv"

	"tutor-cerdas-console/internal/dto"
	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/mapper"
	"tutor-cerdas-console/internal/pkg/serverutils"
	"tutor-cerdas-console/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	Rebuild(ctx *fiber.Ctx) error
	Chunks(ctx *fiber.Ctx) error
}

type adminController struct {
	workflow service.IAdminWorkflowService
}

func NewAdminController(workflow service.IAdminWorkflowService) IAdminController {
	return &adminController{workflow: workflow}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/admin/documents",
		serverutils.Authenticated(),
		serverutils.AllowRoles(entity.UserRoleAdmin),
	)
	g.Get("/", c.List)
	g.Post("/upload", c.Upload)
	g.Post("/rebuild/:id", c.Rebuild)
	g.Get("/:id/chunks", c.Chunks)
}

func (c *adminController) List(ctx *fiber.Ctx) error {
	docs, err := c.workflow.Refresh(ctx.Context(), serverutils.AccessTokenFromCtx(ctx))
	if err != nil {
		// Stale list stays visible next to the error.
		return serverutils.FailWith(ctx, fiber.StatusBadGateway, err.Error(), mapper.ToDocumentList(docs))
	}
	return serverutils.OK(ctx, "documents", mapper.ToDocumentList(docs))
}

func (c *adminController) Upload(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil || header == nil {
		// Validation failure: nothing is sent to the backend.
		return serverutils.Fail(ctx, fiber.StatusBadRequest, service.ErrNoFile.Error())
	}

	file, err := header.Open()
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "could not read uploaded file")
	}
	defer file.Close()

	title := ctx.FormValue("title")
	err = c.workflow.Upload(ctx.Context(), serverutils.AccessTokenFromCtx(ctx), title, header.Filename, file)
	switch {
	case errors.Is(err, service.ErrUploadInFlight):
		return serverutils.Fail(ctx, fiber.StatusConflict, err.Error())
	case err != nil:
		return serverutils.Fail(ctx, fiber.StatusBadGateway, err.Error())
	}
	return serverutils.OK(ctx, "uploaded", mapper.ToDocumentList(c.workflow.Documents()))
}

func (c *adminController) Rebuild(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.workflow.Rebuild(ctx.Context(), serverutils.AccessTokenFromCtx(ctx), id)
	switch {
	case errors.Is(err, service.ErrRebuildInFlight):
		return serverutils.Fail(ctx, fiber.StatusConflict, err.Error())
	case err != nil:
		return serverutils.Fail(ctx, fiber.StatusBadGateway, err.Error())
	}
	return serverutils.OK(ctx, "rebuild complete", dto.RebuildResponse{
		Pages:  countOrDash(res.Pages),
		Chunks: countOrDash(res.Chunks),
	})
}

func (c *adminController) Chunks(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	chunks, err := c.workflow.ViewChunks(ctx.Context(), serverutils.AccessTokenFromCtx(ctx), id)
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadGateway, err.Error())
	}
	return serverutils.OK(ctx, "chunks", mapper.ToChunkList(id, chunks))
}

// countOrDash tolerates backends that omit counts.
func countOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
