package systems

// Viewport tracks the host window size. Dimensions are clamped to at
// least 1x1 so transient zero sizes during layout never reach a surface.
type Viewport struct {
	width, height int32
	known         bool
}

// Update records a new size and reports whether it differs from the last one.
func (v *Viewport) Update(width, height int) bool {
	w, h := ClampDimension(width), ClampDimension(height)
	if v.known && w == v.width && h == v.height {
		return false
	}
	v.width, v.height = w, h
	v.known = true
	return true
}

// Size returns the clamped dimensions.
func (v *Viewport) Size() (width, height int32) {
	return v.width, v.height
}

// Known reports whether any size has been recorded yet.
func (v *Viewport) Known() bool {
	return v.known
}

// ClampDimension raises zero or negative sizes to 1.
func ClampDimension(n int) int32 {
	if n < 1 {
		return 1
	}
	if n > 1<<15 {
		return 1 << 15
	}
	return int32(n)
}
