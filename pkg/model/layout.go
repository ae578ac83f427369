package model

import (
	"fmt"
	"strings"
)

// PageLayout holds the physical page size and margin in mm.
type PageLayout struct {
	Name   string
	Width  float64
	Height float64
	Margin float64
}

const DefaultMargin = 10.0

var (
	A3     = PageLayout{Name: "A3", Width: 297, Height: 420, Margin: DefaultMargin}
	A4     = PageLayout{Name: "A4", Width: 210, Height: 297, Margin: DefaultMargin}
	A5     = PageLayout{Name: "A5", Width: 148, Height: 210, Margin: DefaultMargin}
	Letter = PageLayout{Name: "Letter", Width: 215.9, Height: 279.4, Margin: DefaultMargin}
	Legal  = PageLayout{Name: "Legal", Width: 215.9, Height: 355.6, Margin: DefaultMargin}
)

// DefaultLayout is A4 portrait with a 10mm margin
func DefaultLayout() PageLayout {
	return A4
}

var namedLayouts = map[string]PageLayout{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// LayoutByName looks up a named page size, case insensitive.
func LayoutByName(name string) (PageLayout, error) {
	l, ok := namedLayouts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PageLayout{}, fmt.Errorf("unknown page size %q", name)
	}
	return l, nil
}

func (l PageLayout) Landscape() PageLayout {
	if l.Width < l.Height {
		l.Width, l.Height = l.Height, l.Width
	}
	return l
}

func (l PageLayout) WithMargin(margin float64) PageLayout {
	l.Margin = margin
	return l
}

// UsableWidth and UsableHeight are the printable area inside the margins.
func (l PageLayout) UsableWidth() float64 {
	return l.Width - 2*l.Margin
}

func (l PageLayout) UsableHeight() float64 {
	return l.Height - 2*l.Margin
}
