// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// FlagVertexShader transforms the deformed flag mesh.
//
//go:embed flag.vert
var FlagVertexShader string

// FlagFragmentShader lights the flag with the rig, environment and key light shadow.
//
//go:embed flag.frag
var FlagFragmentShader string

// DepthVertexShader renders the flag into the shadow map.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is the empty depth-only fragment stage.
//
//go:embed depth.frag
var DepthFragmentShader string

// ContactDepthVertexShader renders the flag from above for the contact shadow.
//
//go:embed contact_depth.vert
var ContactDepthVertexShader string

// ContactDepthFragmentShader writes height-attenuated darkness.
//
//go:embed contact_depth.frag
var ContactDepthFragmentShader string

// ContactVertexShader draws the ground plane.
//
//go:embed contact.vert
var ContactVertexShader string

// ContactFragmentShader blends the blurred contact shadow onto the ground plane.
//
//go:embed contact.frag
var ContactFragmentShader string

// QuadVertexShader is the fullscreen triangle shared by post-processing passes.
//
//go:embed quad.vert
var QuadVertexShader string

// BrightFragmentShader extracts pixels above the bloom threshold.
//
//go:embed bright.frag
var BrightFragmentShader string

// BlurFragmentShader is a separable gaussian blur.
//
//go:embed blur.frag
var BlurFragmentShader string

// TonemapFragmentShader composites bloom, tone maps and encodes for display.
//
//go:embed tonemap.frag
var TonemapFragmentShader string
