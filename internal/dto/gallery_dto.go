package dto

import (
	"portfolio-be/pkg/media"
	"portfolio-be/pkg/slides"
)

type GalleryResponse struct {
	Title string              `json:"title"`
	Key   string              `json:"key"`
	Found bool                `json:"found"`
	Items []media.GalleryItem `json:"items"`
	Hints []string            `json:"hints,omitempty"`
}

type SlugResponse struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type TourStepResponse struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type TourAppResponse struct {
	Key   string             `json:"key"`
	Name  string             `json:"name"`
	Steps []TourStepResponse `json:"steps"`
}

type PresentationResponse struct {
	Title    string            `json:"title"`
	Heading  string            `json:"heading"`
	Featured bool              `json:"featured"`
	Slides   []slides.Rendered `json:"slides"`
}

type TitleQuery struct {
	Title string `validate:"required"`
}
