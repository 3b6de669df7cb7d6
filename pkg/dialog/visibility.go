package dialog

import "fmt"

// Kind names which modal is open.
type Kind int

const (
	None Kind = iota
	Tour
	Gallery
	Presentation
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Tour:
		return "tour"
	case Gallery:
		return "gallery"
	case Presentation:
		return "presentation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "none", "":
		return None, nil
	case "tour":
		return Tour, nil
	case "gallery":
		return Gallery, nil
	case "presentation":
		return Presentation, nil
	default:
		return None, fmt.Errorf("dialog: unknown kind %q", s)
	}
}

// Visibility is the single modal state of a page. Title is set only for
// Gallery and Presentation.
type Visibility struct {
	Kind  Kind   `json:"modal"`
	Title string `json:"title,omitempty"`
}

func Closed() Visibility                       { return Visibility{Kind: None} }
func TourOpen() Visibility                     { return Visibility{Kind: Tour} }
func GalleryOpen(title string) Visibility      { return Visibility{Kind: Gallery, Title: title} }
func PresentationOpen(title string) Visibility { return Visibility{Kind: Presentation, Title: title} }

// IsOpen reports whether any modal is visible.
func (v Visibility) IsOpen() bool { return v.Kind != None }

func (v Visibility) String() string {
	if v.Title == "" {
		return v.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", v.Kind, v.Title)
}
