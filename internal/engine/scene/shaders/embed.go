// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader is the vertex shader for per-pixel lit objects.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader is the fragment shader for per-pixel lit objects.
//
//go:embed lit.frag
var LitFragmentShader string

// VertexLitVertexShader computes lighting per vertex. Reflection cameras
// on the lowest quality tier use it.
//
//go:embed vertexlit.vert
var VertexLitVertexShader string

// VertexLitFragmentShader is the fragment shader for vertex-lit objects.
//
//go:embed vertexlit.frag
var VertexLitFragmentShader string

// WaterVertexShader is the vertex shader for water rendering.
//
//go:embed water.vert
var WaterVertexShader string

// WaterFragmentShader is the fragment shader for water rendering.
//
//go:embed water.frag
var WaterFragmentShader string

// MirrorVertexShader is the vertex shader for mirror surfaces.
//
//go:embed mirror.vert
var MirrorVertexShader string

// MirrorFragmentShader samples one layer of the reflection array in
// screen space.
//
//go:embed mirror.frag
var MirrorFragmentShader string
