package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/akarakai/imgpdf/pkg/model"
)

const tolerance = 1e-6

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestFitConcreteScenario(t *testing.T) {
	p, err := Fit(1000, 500, model.A4)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !near(PixelsToMM(1000), 264.583, 0.001) || !near(PixelsToMM(500), 132.292, 0.001) {
		t.Errorf("physical size = %vx%v", PixelsToMM(1000), PixelsToMM(500))
	}
	if !near(p.Width, 190, 0.01) || !near(p.Height, 95, 0.01) {
		t.Errorf("size = %vx%v, want 190x95", p.Width, p.Height)
	}
	if !near(p.X, 10, 0.01) || !near(p.Y, 101, 0.01) {
		t.Errorf("origin = (%v, %v), want (10, 101)", p.X, p.Y)
	}
}

func TestFitProperties(t *testing.T) {
	layouts := []model.PageLayout{model.A4, model.A4.Landscape(), model.Letter, model.A5.WithMargin(0)}
	sizes := [][2]float64{
		{1, 1}, {1, 5000}, {5000, 1}, {640, 480}, {480, 640}, {1920, 1080},
		{3024, 4032}, {794, 1123}, {12, 7}, {100000, 99999},
	}

	for _, l := range layouts {
		for _, s := range sizes {
			p, err := Fit(s[0], s[1], l)
			if err != nil {
				t.Fatalf("Fit(%v, %v, %s): %v", s[0], s[1], l.Name, err)
			}

			// aspect ratio
			if !near(p.Width/p.Height, s[0]/s[1], 1e-9*s[0]/s[1]) {
				t.Errorf("%s %vx%v: aspect %v, want %v", l.Name, s[0], s[1], p.Width/p.Height, s[0]/s[1])
			}

			// containment
			if p.Width > l.UsableWidth()+tolerance || p.Height > l.UsableHeight()+tolerance {
				t.Errorf("%s %vx%v: %vx%v exceeds usable %vx%v", l.Name, s[0], s[1],
					p.Width, p.Height, l.UsableWidth(), l.UsableHeight())
			}

			// largest: one of the axes touches the margins
			if !near(p.Width, l.UsableWidth(), tolerance) && !near(p.Height, l.UsableHeight(), tolerance) {
				t.Errorf("%s %vx%v: %vx%v does not fill either axis", l.Name, s[0], s[1], p.Width, p.Height)
			}

			// centering
			if !near(p.X+p.Width/2, l.Width/2, tolerance) || !near(p.Y+p.Height/2, l.Height/2, tolerance) {
				t.Errorf("%s %vx%v: not centered: %+v", l.Name, s[0], s[1], p)
			}
		}
	}
}

func TestFitInvalidGeometry(t *testing.T) {
	t.Run("non positive pixels", func(t *testing.T) {
		bad := [][2]float64{{0, 10}, {10, 0}, {-1, 10}, {10, -3}, {math.NaN(), 10}, {math.Inf(1), 10}}
		for _, b := range bad {
			if _, err := Fit(b[0], b[1], model.A4); !errors.Is(err, model.ErrInvalidGeometry) {
				t.Errorf("Fit(%v, %v) err = %v, want ErrInvalidGeometry", b[0], b[1], err)
			}
		}
	})

	t.Run("no printable area", func(t *testing.T) {
		layouts := []model.PageLayout{
			model.A4.WithMargin(105),
			model.A4.WithMargin(-1),
			{Name: "zero", Width: 0, Height: 0},
		}
		for _, l := range layouts {
			if _, err := Fit(100, 100, l); !errors.Is(err, model.ErrInvalidGeometry) {
				t.Errorf("layout %+v: err = %v, want ErrInvalidGeometry", l, err)
			}
		}
	})
}
