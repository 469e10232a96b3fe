package shader

import _ "embed"

// LitVertexShader transforms position and normal into view space.
//
//go:embed glsl/lit.vert
var LitVertexShader string

// LitFragmentShader shades with the material colors and the point light block.
//
//go:embed glsl/lit.frag
var LitFragmentShader string
