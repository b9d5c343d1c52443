package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(20, 6)

	if s.Width() != 20 || s.Height() != 6 {
		t.Fatalf("dimensions = %dx%d, expected 20x6", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("new screen cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetColoredOutOfBounds(t *testing.T) {
	s := NewScreen(10, 4)

	s.SetColored(3, 2, '@', ColorCyan)
	if c := s.GetCell(3, 2); c.Rune != '@' || c.Color != ColorCyan {
		t.Errorf("GetCell(3, 2) = %+v, expected cyan '@'", c)
	}

	// Out of bounds writes are ignored and reads return blank
	s.SetColored(-1, 0, 'X', ColorRed)
	s.SetColored(0, 99, 'X', ColorRed)
	if s.Get(-1, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenRecolor(t *testing.T) {
	s := NewScreen(4, 1)
	s.DrawTextColored(0, 0, "ab", ColorRed)

	s.Recolor(Color.Grayscale)

	if c := s.GetCell(0, 0); c.Color != ColorDarkGray {
		t.Errorf("recolored red = %v, expected dark gray", c.Color)
	}
	if c := s.GetCell(3, 0); c.Color != ColorDefault {
		t.Errorf("recolored default = %v, expected default", c.Color)
	}
}

func TestScreenDrawBoxCorners(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorWhite)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner (%d, %d) = %q, expected %q", pos[0], pos[1], got, want)
		}
	}
}

func TestScreenStringAndRow(t *testing.T) {
	s := NewScreen(5, 2)
	s.DrawText(0, 0, "EXIT!")
	s.DrawHLine(0, 1, 5, '═', ColorGray)

	if got := s.String(); got != "EXIT!\n═════" {
		t.Errorf("String() = %q", got)
	}
	if got := s.Row(-1); got != "     " {
		t.Errorf("out of bounds Row = %q, expected spaces", got)
	}
}

func TestScreenResizePreservesContent(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Room")

	s.Resize(6, 3)
	if !strings.HasPrefix(s.Row(0), "Room") {
		t.Errorf("content lost after shrink, row 0 = %q", s.Row(0))
	}

	s.Resize(12, 8)
	if !strings.HasPrefix(s.Row(0), "Room") {
		t.Errorf("content lost after grow, row 0 = %q", s.Row(0))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextCentered(1, "Hi", ColorYellow)

	x := (20 - 2) / 2
	if s.Get(x, 1) != 'H' || s.Get(x+1, 1) != 'i' {
		t.Error("DrawTextCentered placed text off center")
	}
}
