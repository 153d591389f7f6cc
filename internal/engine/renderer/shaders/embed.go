// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// InstancedVertexShader is the vertex shader for indirect instanced meshes.
//
//go:embed instanced.vert
var InstancedVertexShader string

// InstancedFragmentShader is the fragment shader for indirect instanced meshes.
//
//go:embed instanced.frag
var InstancedFragmentShader string
