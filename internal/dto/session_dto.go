package dto

import (
	"portfolio-be/pkg/dialog"
	"portfolio-be/pkg/media"
	"portfolio-be/pkg/slides"
)

// Inbound command types.
const (
	CmdSelectProject     = "select_project"
	CmdOpenTour          = "open_tour"
	CmdCloseTour         = "close_tour"
	CmdCloseGallery      = "close_gallery"
	CmdClosePresentation = "close_presentation"
	CmdOpenGallery       = "open_gallery"
	CmdGalleryPrev       = "gallery_prev"
	CmdGalleryNext       = "gallery_next"
	CmdGallerySlide      = "gallery_slide"
	CmdTourTab           = "tour_tab"
	CmdTourPrev          = "tour_prev"
	CmdTourNext          = "tour_next"
	CmdKey               = "key"
)

// Outbound message types.
const (
	MsgState   = "state"
	MsgGallery = "gallery"
	MsgSeek    = "seek"
	MsgIndex   = "index"
	MsgSlide   = "slide"
	MsgTour    = "tour"
	MsgError   = "error"
	MsgSession = "session"
)

type SessionCommand struct {
	Type  string `json:"type" validate:"required,oneof=select_project open_tour close_tour close_gallery close_presentation open_gallery gallery_prev gallery_next gallery_slide tour_tab tour_prev tour_next key"`
	Title string `json:"title,omitempty" validate:"required_if=Type select_project"`
	Index int    `json:"index,omitempty" validate:"min=0"`
	App   string `json:"app,omitempty" validate:"required_if=Type tour_tab"`
	Key   string `json:"key,omitempty" validate:"required_if=Type key"`
}

// SessionMessage is the envelope of every server push; only the fields of
// its Type are set.
type SessionMessage struct {
	Type    string             `json:"type"`
	Session string             `json:"session,omitempty"`
	Modal   *dialog.Visibility `json:"state,omitempty"`
	Gallery *GalleryResponse   `json:"gallery,omitempty"`
	Index   *int               `json:"index,omitempty"`
	Total   *int               `json:"total,omitempty"`
	AtStart *bool              `json:"at_start,omitempty"`
	AtEnd   *bool              `json:"at_end,omitempty"`
	Slide   *slides.Rendered   `json:"slide,omitempty"`
	Tour    *TourPosition      `json:"tour,omitempty"`
	Item    *media.GalleryItem `json:"item,omitempty"`
	Error   *SessionError      `json:"error,omitempty"`
}

type TourPosition struct {
	App  string           `json:"app"`
	Name string           `json:"name"`
	Step TourStepResponse `json:"step"`
}

type SessionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
