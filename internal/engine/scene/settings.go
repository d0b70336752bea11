package scene

// ToneMapping selects the HDR to display curve.
type ToneMapping int

const (
	NoToneMapping ToneMapping = iota
	ACESFilmic
)

// OutputColorSpace selects the final framebuffer encoding.
type OutputColorSpace int

const (
	LinearOutput OutputColorSpace = iota
	SRGBOutput
)

// ShadowType selects the shadow map filtering.
type ShadowType int

const (
	BasicShadows ShadowType = iota
	PCFShadows
	PCFSoftShadows
)

// ShadowSettings is the global shadow map switch. When Enabled is false no
// light renders a shadow map regardless of its own cast flag.
type ShadowSettings struct {
	Enabled bool
	Type    ShadowType
}

// RenderSettings are renderer-wide output settings.
type RenderSettings struct {
	ToneMapping      ToneMapping
	Exposure         float32
	OutputColorSpace OutputColorSpace
	Shadow           ShadowSettings
	ClearColor       [4]float32
}

// DefaultRenderSettings returns ACES filmic output in sRGB with soft shadows.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		ToneMapping:      ACESFilmic,
		Exposure:         1.0,
		OutputColorSpace: SRGBOutput,
		Shadow: ShadowSettings{
			Enabled: true,
			Type:    PCFSoftShadows,
		},
		ClearColor: [4]float32{0, 0, 0, 0},
	}
}

// PCFRadius returns the shadow filter kernel radius in texels.
func (s ShadowSettings) PCFRadius() int32 {
	switch s.Type {
	case PCFSoftShadows:
		return 2
	case PCFShadows:
		return 1
	default:
		return 0
	}
}
