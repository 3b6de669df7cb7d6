package controller

import (
	"fmt"

	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/service"
	"portfolio-be/pkg/pdf"

	"github.com/gofiber/fiber/v2"
)

type IPortfolioController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	ListProjects(ctx *fiber.Ctx) error
	ListSkills(ctx *fiber.Ctx) error
	ListExperiences(ctx *fiber.Ctx) error
	Document(ctx *fiber.Ctx) error
}

type portfolioController struct {
	service service.IPortfolioService
}

func NewPortfolioController(service service.IPortfolioService) IPortfolioController {
	return &portfolioController{service: service}
}

func (c *portfolioController) RegisterRoutes(r fiber.Router) {
	r.Get("/profile", c.GetProfile)
	r.Get("/projects", c.ListProjects)
	r.Get("/skills", c.ListSkills)
	r.Get("/experiences", c.ListExperiences)
	r.Get("/pdf", c.Document)
}

func (c *portfolioController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.service.GetProfile(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *portfolioController) ListProjects(ctx *fiber.Ctx) error {
	res, err := c.service.ListProjects(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list projects", res))
}

func (c *portfolioController) ListSkills(ctx *fiber.Ctx) error {
	res, err := c.service.ListSkills(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list skills", res))
}

func (c *portfolioController) ListExperiences(ctx *fiber.Ctx) error {
	res, err := c.service.ListExperiences(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list experiences", res))
}

func (c *portfolioController) Document(ctx *fiber.Ctx) error {
	doc, err := c.service.Document(ctx.UserContext())
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%s", pdf.FileName))
	return ctx.Send(doc)
}
