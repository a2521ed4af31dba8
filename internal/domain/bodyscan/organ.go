package bodyscan

import (
	"fmt"
	"strings"
)

// OrganID identifies one of the fixed anatomical nodes on the body map.
type OrganID string

const (
	OrganHeart   OrganID = "heart"
	OrganKidneys OrganID = "kidneys"
	OrganLungs   OrganID = "lungs"
	OrganLiver   OrganID = "liver"
	OrganStomach OrganID = "stomach"
)

// Point is a coordinate on the 200x400 body map viewbox.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Organ describes a biometric node rendered on the body map.
type Organ struct {
	ID   OrganID `json:"id"`
	Name string  `json:"name"`
	Pos  Point   `json:"pos"`
}

// canonical order, also used to merge the global timeline
var organs = []Organ{
	{ID: OrganHeart, Name: "Heart", Pos: Point{X: 100, Y: 120}},
	{ID: OrganKidneys, Name: "Kidneys", Pos: Point{X: 100, Y: 180}},
	{ID: OrganLungs, Name: "Lungs", Pos: Point{X: 100, Y: 110}},
	{ID: OrganLiver, Name: "Liver", Pos: Point{X: 85, Y: 160}},
	{ID: OrganStomach, Name: "Digestive Tract", Pos: Point{X: 110, Y: 165}},
}

// Organs returns the known organs in canonical order.
func Organs() []Organ {
	out := make([]Organ, len(organs))
	copy(out, organs)
	return out
}

func (id OrganID) Valid() bool {
	for _, o := range organs {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Name returns the display name, or the raw id for unknown organs.
func (id OrganID) Name() string {
	for _, o := range organs {
		if o.ID == id {
			return o.Name
		}
	}
	return string(id)
}

// ParseOrganID normalizes s and checks it against the known organs.
func ParseOrganID(s string) (OrganID, error) {
	id := OrganID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrgan, s)
	}
	return id, nil
}

// Layer is the neural layer the body map is rendered with.
type Layer string

const (
	LayerCirculatory Layer = "circulatory"
	LayerRespiratory Layer = "respiratory"
	LayerNervous     Layer = "nervous"
	LayerSkeletal    Layer = "skeletal"
)

func ParseLayer(s string) (Layer, error) {
	switch l := Layer(strings.ToLower(strings.TrimSpace(s))); l {
	case LayerCirculatory, LayerRespiratory, LayerNervous, LayerSkeletal:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}
