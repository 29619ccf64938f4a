package controller

import (
	"ai-coursegen-be/internal/dto"
	"ai-coursegen-be/internal/pkg/serverutils"
	"ai-coursegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProposalController interface {
	RegisterRoutes(r fiber.Router)
	Update(ctx *fiber.Ctx) error
	Refine(ctx *fiber.Ctx) error
}

type proposalController struct {
	reviewService service.IReviewService
}

func NewProposalController(reviewService service.IReviewService) IProposalController {
	return &proposalController{
		reviewService: reviewService,
	}
}

func (c *proposalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1/proposals")
	h.Use(serverutils.JwtMiddleware)
	h.Put(":id", c.Update)
	h.Post(":id/refine", c.Refine)
}

func proposalParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid proposal id")
	}
	return id, nil
}

func (c *proposalController) Update(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	proposalId, err := proposalParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProposalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.reviewService.UpdateProposal(ctx.Context(), userId, proposalId, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update proposal", res))
}

func (c *proposalController) Refine(ctx *fiber.Ctx) error {
	userId, err := requestUser(ctx)
	if err != nil {
		return err
	}
	proposalId, err := proposalParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RefineProposalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.reviewService.RefineProposal(ctx.Context(), userId, proposalId, req.Feedback)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refine proposal", res))
}
