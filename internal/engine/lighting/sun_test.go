package lighting

import (
	"testing"

	"github.com/Faultbox/tachyon/pkg/math"
)

func near(a, b float32) bool {
	d := a - b
	return d > -1e-5 && d < 1e-5
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name    string
		azimuth float32
		elev    float32
		want    math.Vec3
	}{
		{"zenith", 0, 90, math.Vec3{Y: 1}},
		{"south horizon", 0, 0, math.Vec3{Z: 1}},
		{"east horizon", 90, 0, math.Vec3{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elev)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Z, tt.want.Z) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elev, got, tt.want)
			}
		})
	}
}

func TestLightDirectionOpposesSun(t *testing.T) {
	sun := SunDirection(45, 60)
	light := LightDirection(45, 60)
	if !near(sun.Dot(light), -1) {
		t.Errorf("sun . light = %f, want -1", sun.Dot(light))
	}
	if !near(sun.Length(), 1) {
		t.Errorf("|sun| = %f, want 1", sun.Length())
	}
}
