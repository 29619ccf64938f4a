package controller

import (
	"errors"
	"strconv"

	"ai-coursegen-be/internal/dto"
	"ai-coursegen-be/internal/pkg/serverutils"
	"ai-coursegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Store(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Destroy(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	Catalogs(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type generationController struct {
	sessionService service.ISessionService
	reviewService  service.IReviewService
	uploadService  service.IUploadService
}

func NewGenerationController(
	sessionService service.ISessionService,
	reviewService service.IReviewService,
	uploadService service.IUploadService,
) IGenerationController {
	return &generationController{
		sessionService: sessionService,
		reviewService:  reviewService,
		uploadService:  uploadService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("catalogs", c.Catalogs)
	h.Get("sessions", c.Index)
	h.Post("sessions", c.Store)
	h.Get("sessions/:id", c.Show)
	h.Post("sessions/:id/cancel", c.Cancel)
	h.Delete("sessions/:id", c.Destroy)
	h.Get("sessions/:id/logs", c.Logs)
	h.Post("sessions/:id/approve", c.Approve)
	h.Post("sessions/:id/reject", c.Reject)
	h.Post("sessions/:id/upload", c.Upload)
}

// requestUser pulls the authenticated user id from the JWT middleware.
func requestUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals(serverutils.LocalUserId).(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user")
	}
	return userId, nil
}

// requestOrganization reads the optional organization scope header.
func requestOrganization(ctx *fiber.Ctx) *uuid.UUID {
	raw := ctx.Get("X-Organization-Id")
	if raw == "" {
		return nil
	}
	orgId, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &orgId
}

func sessionParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

// mapServiceError converts service sentinel errors to HTTP statuses.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrProposalNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUploadInFlight):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNothingToUpload):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return err
}

func (c *generationController) Index(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Index(ctx.Context(), userId, requestOrganization(ctx))
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *generationController) Store(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Create(ctx.Context(), userId, requestOrganization(ctx), &req)
	if err != nil {
		return mapServiceError(err)
	}

	status := fiber.StatusOK
	if res.Message != "" {
		status = fiber.StatusCreated
	} else if res.Error != "" {
		status = fiber.StatusUnprocessableEntity
	}
	return ctx.Status(status).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *generationController) Show(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Show(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *generationController) Cancel(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Cancel(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cancel session", res))
}

func (c *generationController) Destroy(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	if err := c.sessionService.Delete(ctx.Context(), userId, sessionId); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *generationController) Logs(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.sessionService.Logs(ctx.Context(), userId, sessionId, limit, offset)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list session logs", res))
}

func (c *generationController) Catalogs(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list catalogs", c.sessionService.Catalogs()))
}

func (c *generationController) Approve(ctx *fiber.Ctx) error {
	return c.review(ctx, true)
}

func (c *generationController) Reject(ctx *fiber.Ctx) error {
	return c.review(ctx, false)
}

func (c *generationController) review(ctx *fiber.Ctx, approve bool) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	var req dto.ProposalIdsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if approve {
		count, err := c.reviewService.ApproveProposals(ctx.Context(), userId, sessionId, req.ProposalIds)
		if err != nil {
			return mapServiceError(err)
		}
		return ctx.JSON(serverutils.SuccessResponse("Success approve proposals", dto.ReviewCountResponse{ApprovedCount: count}))
	}

	count, err := c.reviewService.RejectProposals(ctx.Context(), userId, sessionId, req.ProposalIds)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reject proposals", dto.ReviewCountResponse{RejectedCount: count}))
}

func (c *generationController) Upload(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.uploadService.Upload(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload session content", res))
}
