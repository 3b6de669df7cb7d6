package controller

import (
	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/serverutils"
	"portfolio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGalleryController interface {
	RegisterRoutes(r fiber.Router)
	Load(ctx *fiber.Ctx) error
	Slug(ctx *fiber.Ctx) error
	Tour(ctx *fiber.Ctx) error
	TourApp(ctx *fiber.Ctx) error
	Presentation(ctx *fiber.Ctx) error
}

type galleryController struct {
	service service.IGalleryService
}

func NewGalleryController(service service.IGalleryService) IGalleryController {
	return &galleryController{service: service}
}

func (c *galleryController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/gallery")
	g.Get("", c.Load)
	g.Get("/slug", c.Slug)

	r.Get("/tour", c.Tour)
	r.Get("/tour/:app", c.TourApp)
	r.Get("/presentation", c.Presentation)
}

func titleQuery(ctx *fiber.Ctx) (string, error) {
	q := dto.TitleQuery{Title: ctx.Query("title")}
	if err := serverutils.ValidateRequest(&q); err != nil {
		return "", err
	}
	return q.Title, nil
}

func (c *galleryController) Load(ctx *fiber.Ctx) error {
	title, err := titleQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Load(ctx.UserContext(), title)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success load gallery", res))
}

func (c *galleryController) Slug(ctx *fiber.Ctx) error {
	title, err := titleQuery(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get slug", c.service.Slug(title)))
}

func (c *galleryController) Tour(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list tour", c.service.Tour()))
}

func (c *galleryController) TourApp(ctx *fiber.Ctx) error {
	res, err := c.service.TourApp(ctx.Params("app"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get tour", res))
}

// Presentation always answers; an unknown title gets the fallback slide.
func (c *galleryController) Presentation(ctx *fiber.Ctx) error {
	title, err := titleQuery(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get presentation", c.service.Presentation(title)))
}
