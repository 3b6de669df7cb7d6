package controller

import (
	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBriefingController interface {
	RegisterRoutes(r fiber.Router)
	Template(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
}

type briefingController struct {
	service service.IBriefingService
}

func NewBriefingController(service service.IBriefingService) IBriefingController {
	return &briefingController{service: service}
}

func (c *briefingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/briefing")
	h.Get("/template", c.Template)
	h.Post("", c.Submit)
}

func (c *briefingController) Template(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get briefing template", c.service.Template()))
}

// Submit forwards the form as-is; the upstream decides what is acceptable.
func (c *briefingController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitBriefingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("Invalid request body", nil)
	}

	res, err := c.service.Submit(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Briefing submitted", res))
}
