package lighting

import (
	"testing"

	"github.com/Faultbox/midgard-mirror/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name string
		sun  Sun
		want math.Vec3
	}{
		{"zenith", Sun{Longitude: 0, Latitude: 90}, math.Vec3{Y: 1}},
		{"south horizon", Sun{Longitude: 0, Latitude: 0}, math.Vec3{Z: 1}},
		{"east horizon", Sun{Longitude: 90, Latitude: 0}, math.Vec3{X: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sun.Direction()
			if got.Sub(tt.want).Length() > 1e-5 {
				t.Errorf("Direction() = %+v, want %+v", got, tt.want)
			}
			if l := got.Length(); l < 0.99999 || l > 1.00001 {
				t.Errorf("direction not normalized: %v", l)
			}
			if d := got.Add(tt.sun.LightDir()).Length(); d > 1e-6 {
				t.Errorf("LightDir is not opposite of Direction")
			}
		})
	}
}
