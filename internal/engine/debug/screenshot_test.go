package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFlipRGBA(t *testing.T) {
	// 1x2 image: bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRGBA(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRGBA: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("top pixel should be blue")
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Errorf("bottom pixel should be red")
	}
}

func TestFlipRGBASizeMismatch(t *testing.T) {
	if _, err := FlipRGBA(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "tachyon")

	path, err := sc.CaptureFromPixels(make([]byte, 4*3*2), 4, 3)
	if err == nil {
		t.Fatalf("expected size error, got file %s", path)
	}

	path, err = sc.CaptureFromPixels(make([]byte, 4*3*4), 4, 3)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "tachyon_") {
		t.Errorf("unexpected filename %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 3 {
		t.Errorf("size = %dx%d, want 4x3", cfg.Width, cfg.Height)
	}
}

func TestGenerateFilenameSameSecond(t *testing.T) {
	sc := NewScreenshotCapture("", "shot")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sc.now = func() time.Time { return fixed }

	a := sc.GenerateFilename()
	b := sc.GenerateFilename()
	if a == b {
		t.Errorf("filenames collide: %s", a)
	}
	if a != "shot_2024-05-01_12-00-00.png" {
		t.Errorf("first = %s", a)
	}
	if b != "shot_2024-05-01_12-00-00_1.png" {
		t.Errorf("second = %s", b)
	}
}
