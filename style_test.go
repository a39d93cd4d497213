package dte

import "testing"

func TestAttribute(t *testing.T) {
	t.Run("Has", func(t *testing.T) {
		attr := AttrBold | AttrItalic
		if !attr.Has(AttrBold) {
			t.Error("expected attr to have Bold")
		}
		if !attr.Has(AttrItalic) {
			t.Error("expected attr to have Italic")
		}
		if attr.Has(AttrUnderline) {
			t.Error("expected attr to not have Underline")
		}
	})

	t.Run("With", func(t *testing.T) {
		attr := AttrBold
		attr = attr.With(AttrItalic)
		if !attr.Has(AttrBold) || !attr.Has(AttrItalic) {
			t.Error("expected attr to have both Bold and Italic")
		}
	})

	t.Run("Without", func(t *testing.T) {
		attr := AttrBold | AttrItalic
		attr = attr.Without(AttrBold)
		if attr.Has(AttrBold) {
			t.Error("expected attr to not have Bold")
		}
		if !attr.Has(AttrItalic) {
			t.Error("expected attr to still have Italic")
		}
	})
}

func TestColor(t *testing.T) {
	t.Run("DefaultColor", func(t *testing.T) {
		c := DefaultColor()
		if c.Mode != ColorDefault {
			t.Errorf("expected ColorDefault, got %v", c.Mode)
		}
	})

	t.Run("KeepColor", func(t *testing.T) {
		c := KeepColor()
		if c.Mode != ColorKeep {
			t.Errorf("expected ColorKeep, got %v", c.Mode)
		}
	})

	t.Run("BasicColor", func(t *testing.T) {
		c := BasicColor(5)
		if c.Mode != Color16 || c.Index != 5 {
			t.Errorf("expected Color16 with index 5, got %v/%d", c.Mode, c.Index)
		}
	})

	t.Run("PaletteColor", func(t *testing.T) {
		c := PaletteColor(200)
		if c.Mode != Color256 || c.Index != 200 {
			t.Errorf("expected Color256 with index 200, got %v/%d", c.Mode, c.Index)
		}
	})

	t.Run("RGB", func(t *testing.T) {
		c := RGB(255, 128, 64)
		if c.Mode != ColorRGB || c.R != 255 || c.G != 128 || c.B != 64 {
			t.Errorf("expected RGB(255,128,64), got %+v", c)
		}
	})

	t.Run("Equal", func(t *testing.T) {
		c1 := RGB(100, 100, 100)
		c2 := RGB(100, 100, 100)
		c3 := RGB(100, 100, 101)

		if !c1.Equal(c2) {
			t.Error("expected c1 and c2 to be equal")
		}
		if c1.Equal(c3) {
			t.Error("expected c1 and c3 to not be equal")
		}
	})
}

func TestStyle(t *testing.T) {
	t.Run("DefaultStyle", func(t *testing.T) {
		s := DefaultStyle()
		if s.FG.Mode != ColorDefault || s.BG.Mode != ColorDefault {
			t.Error("expected default colors")
		}
		if s.Attr != AttrNone {
			t.Error("expected no attributes")
		}
	})

	t.Run("Chaining", func(t *testing.T) {
		s := DefaultStyle().
			Foreground(Red).
			Background(Blue).
			Bold().
			Italic()

		if !s.FG.Equal(Red) {
			t.Error("expected Red foreground")
		}
		if !s.BG.Equal(Blue) {
			t.Error("expected Blue background")
		}
		if !s.Attr.Has(AttrBold) || !s.Attr.Has(AttrItalic) {
			t.Error("expected Bold and Italic attributes")
		}
	})

	t.Run("Equal", func(t *testing.T) {
		s1 := DefaultStyle().Foreground(Red).Bold()
		s2 := DefaultStyle().Foreground(Red).Bold()
		s3 := DefaultStyle().Foreground(Red)

		if !s1.Equal(s2) {
			t.Error("expected s1 and s2 to be equal")
		}
		if s1.Equal(s3) {
			t.Error("expected s1 and s3 to not be equal")
		}
	})

	t.Run("MergeKeepsUnderlyingColorOnKeep", func(t *testing.T) {
		base := DefaultStyle().Foreground(Red).Background(Blue)
		over := Style{FG: KeepColor(), BG: Green, Attr: AttrBold}
		merged := base.Merge(over)
		if !merged.FG.Equal(Red) {
			t.Error("expected FG to stay Red through ColorKeep")
		}
		if !merged.BG.Equal(Green) {
			t.Error("expected BG to become Green")
		}
		if !merged.Attr.Has(AttrBold) {
			t.Error("expected Bold to carry through")
		}
	})

	t.Run("MergeKeepAttrAddsOnTopOfBase", func(t *testing.T) {
		base := DefaultStyle().Bold()
		over := Style{FG: KeepColor(), BG: KeepColor(), Attr: AttrItalic | AttrKeep}
		merged := base.Merge(over)
		if !merged.Attr.Has(AttrBold) || !merged.Attr.Has(AttrItalic) {
			t.Error("expected AttrKeep to layer Italic on top of Bold instead of replacing it")
		}
	})

	t.Run("StripNCVDropsConflictingAttrOnlyWithNonDefaultColor", func(t *testing.T) {
		s := DefaultStyle().Foreground(Red).Bold()
		stripped := s.stripNCV(AttrBold)
		if stripped.Attr.Has(AttrBold) {
			t.Error("expected Bold to be stripped when ncv flags it and FG is non-default")
		}

		plain := DefaultStyle().Bold()
		notStripped := plain.stripNCV(AttrBold)
		if !notStripped.Attr.Has(AttrBold) {
			t.Error("expected Bold to survive when both colors are default")
		}
	})
}

func TestCell(t *testing.T) {
	t.Run("EmptyCell", func(t *testing.T) {
		c := EmptyCell()
		if c.Rune != ' ' {
			t.Errorf("expected space, got %q", c.Rune)
		}
		if c.Width != 1 {
			t.Errorf("expected width 1, got %d", c.Width)
		}
	})

	t.Run("NewCell", func(t *testing.T) {
		style := DefaultStyle().Foreground(Red)
		c := NewCell('X', style)
		if c.Rune != 'X' || !c.Style.Equal(style) {
			t.Error("cell not created correctly")
		}
	})

	t.Run("NewCellWideRune", func(t *testing.T) {
		c := NewCell('世', DefaultStyle())
		if c.Width != 2 {
			t.Errorf("expected width 2 for a CJK rune, got %d", c.Width)
		}
	})

	t.Run("Equal", func(t *testing.T) {
		c1 := NewCell('A', DefaultStyle().Foreground(Red))
		c2 := NewCell('A', DefaultStyle().Foreground(Red))
		c3 := NewCell('B', DefaultStyle().Foreground(Red))

		if !c1.Equal(c2) {
			t.Error("expected c1 and c2 to be equal")
		}
		if c1.Equal(c3) {
			t.Error("expected c1 and c3 to not be equal")
		}
	})
}
