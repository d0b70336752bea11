package scene

// ContactShadow is a soft ground shadow rendered by projecting the flag
// straight down onto a horizontal plane. It exists only to receive shadow,
// so frame capture hides it together with the shadow map.
type ContactShadow struct {
	Y          float32 // Plane height
	Opacity    float32
	Scale      float32 // Side length of the square plane
	Blur       float32 // Blur radius in shadow texels
	Far        float32 // Height above the plane that still casts
	Resolution int32
	visible    bool
}

// DefaultContactShadow returns the reference ground shadow below the flag.
func DefaultContactShadow() *ContactShadow {
	return &ContactShadow{
		Y:          -1.5,
		Opacity:    0.35,
		Scale:      10,
		Blur:       2,
		Far:        10,
		Resolution: 512,
		visible:    true,
	}
}

// Visible reports whether the plane is drawn.
func (c *ContactShadow) Visible() bool {
	return c.visible
}

// SetVisible shows or hides the plane.
func (c *ContactShadow) SetVisible(v bool) {
	c.visible = v
}

// ShadowOnly reports that the plane carries nothing but shadow.
func (c *ContactShadow) ShadowOnly() bool {
	return true
}

// Plane is a textured quad ready for upload.
type Plane struct {
	Vertices []float32 // x, y, z, u, v per vertex
	Indices  []uint32
}

// Plane builds the horizontal quad centered under the origin.
func (c *ContactShadow) Plane() *Plane {
	h := c.Scale / 2
	y := c.Y
	// Order: BL, BR, TR, TL looking down -Y with +Z toward the viewer
	return &Plane{
		Vertices: []float32{
			-h, y, h, 0, 0,
			h, y, h, 1, 0,
			h, y, -h, 1, 1,
			-h, y, -h, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
