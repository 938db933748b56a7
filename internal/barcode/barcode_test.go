package barcode

import (
	"bytes"
	"image/png"
	"testing"
)

func TestLabel(t *testing.T) {
	img, err := Label("GRN-0001")
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	if img.Bounds().Dx() != LabelWidth || img.Bounds().Dy() != LabelHeight {
		t.Errorf("unexpected size %v", img.Bounds())
	}
	if _, err := Label(""); err == nil {
		t.Error("empty code must fail")
	}
}

func TestSheetLayout(t *testing.T) {
	img, err := Sheet("GRN-0001", 5, 2)
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	wantW := 2*(LabelWidth+gap) + gap
	wantH := 3*(LabelHeight+gap) + gap
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Errorf("sheet size %v, want %dx%d", img.Bounds(), wantW, wantH)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("output is not a png: %v", err)
	}
}

func TestSheetQuantityBounds(t *testing.T) {
	for _, q := range []int{0, -1, MaxQuantity + 1} {
		if _, err := Sheet("A", q, 1); err == nil {
			t.Errorf("quantity %d accepted", q)
		}
	}
	img, err := Sheet("A", 1, 4)
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	if img.Bounds().Dx() != LabelWidth+2*gap {
		t.Errorf("columns not clamped to quantity: %v", img.Bounds())
	}
}
