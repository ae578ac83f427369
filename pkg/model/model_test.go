package model

import (
	"errors"
	"testing"
)

func TestFormatByteSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{500, "500 Bytes"},
		{1536, "1.5 KB"},
		{1500, "1.46 KB"},
		{2621440, "2.5 MB"},
		{3 * 1024 * 1024 * 1024 / 2, "1.5 GB"},
	}
	for _, c := range cases {
		if got := FormatByteSize(c.in); got != c.want {
			t.Errorf("FormatByteSize(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLayoutByName(t *testing.T) {
	t.Run("known sizes", func(t *testing.T) {
		l, err := LayoutByName(" A4 ")
		if err != nil {
			t.Fatalf("LayoutByName: %v", err)
		}
		if l.Width != 210 || l.Height != 297 || l.Margin != 10 {
			t.Errorf("unexpected A4 layout %+v", l)
		}
		if _, err := LayoutByName("letter"); err != nil {
			t.Errorf("letter should be known: %v", err)
		}
	})

	t.Run("unknown size", func(t *testing.T) {
		if _, err := LayoutByName("b12"); err == nil {
			t.Error("expected error for unknown page size")
		}
	})
}

func TestLandscape(t *testing.T) {
	l := A4.Landscape()
	if l.Width != 297 || l.Height != 210 {
		t.Errorf("landscape A4 = %vx%v", l.Width, l.Height)
	}
	// already landscape stays as is
	if again := l.Landscape(); again != l {
		t.Errorf("Landscape is not idempotent: %+v", again)
	}
	if u := A4.WithMargin(5).UsableWidth(); u != 200 {
		t.Errorf("usable width = %v, want 200", u)
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{ErrUnsupportedType, ErrDecode, ErrInvalidGeometry, ErrEmptyDocument,
		ErrEncodingFailure, ErrPersistenceFailure, ErrIndexOutOfRange}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
