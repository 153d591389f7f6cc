package objects

// Color is a linear RGBA color with components in [0, 1]. Alpha is kept
// on the object but not packed into the surface word.
type Color struct {
	R, G, B, A float32
}

// Predefined colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}
)

// RGB creates a color from 8-bit RGB values (0-255).
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1,
	}
}

// Material holds the four surface channels, each in [0, 1].
type Material struct {
	Roughness  float32
	Metalness  float32
	Clearcoat  float32
	Subsurface float32
}

// DefaultMaterial is a fully rough dielectric.
var DefaultMaterial = Material{Roughness: 1}

// Surface is the color and material of an object.
type Surface struct {
	Color    Color
	Material Material
}

// Surface word layout, low bit first:
//
//	bits  0-15  color RGB565
//	bits 16-21  roughness
//	bits 22-27  metalness
//	bits 28-29  clearcoat
//	bits 30-31  subsurface
const (
	redBits        = 5
	greenBits      = 6
	blueBits       = 5
	roughnessBits  = 6
	metalnessBits  = 6
	clearcoatBits  = 2
	subsurfaceBits = 2

	greenShift      = redBits
	blueShift       = greenShift + greenBits
	roughnessShift  = 16
	metalnessShift  = roughnessShift + roughnessBits
	clearcoatShift  = metalnessShift + metalnessBits
	subsurfaceShift = clearcoatShift + clearcoatBits
)

// PackSurface quantizes s into a single 32-bit word. Values outside
// [0, 1] are clamped.
func PackSurface(s Surface) uint32 {
	return quantize(s.Color.R, redBits) |
		quantize(s.Color.G, greenBits)<<greenShift |
		quantize(s.Color.B, blueBits)<<blueShift |
		quantize(s.Material.Roughness, roughnessBits)<<roughnessShift |
		quantize(s.Material.Metalness, metalnessBits)<<metalnessShift |
		quantize(s.Material.Clearcoat, clearcoatBits)<<clearcoatShift |
		quantize(s.Material.Subsurface, subsurfaceBits)<<subsurfaceShift
}

// UnpackSurface decodes a word written by PackSurface.
func UnpackSurface(w uint32) Surface {
	return Surface{
		Color: Color{
			R: dequantize(w, 0, redBits),
			G: dequantize(w, greenShift, greenBits),
			B: dequantize(w, blueShift, blueBits),
			A: 1,
		},
		Material: Material{
			Roughness:  dequantize(w, roughnessShift, roughnessBits),
			Metalness:  dequantize(w, metalnessShift, metalnessBits),
			Clearcoat:  dequantize(w, clearcoatShift, clearcoatBits),
			Subsurface: dequantize(w, subsurfaceShift, subsurfaceBits),
		},
	}
}

// QuantizationStep returns the largest round-trip error for a channel
// stored in the given number of bits.
func QuantizationStep(bits uint) float32 {
	return 0.5 / float32(uint32(1)<<bits-1)
}

func quantize(v float32, bits uint) uint32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	maxVal := uint32(1)<<bits - 1
	return uint32(v*float32(maxVal) + 0.5)
}

func dequantize(w uint32, shift, bits uint) float32 {
	maxVal := uint32(1)<<bits - 1
	return float32((w>>shift)&maxVal) / float32(maxVal)
}
