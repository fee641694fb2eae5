// Package mirror renders planar mirror reflections.
//
// A Surface owns one reflective plane. Once per frame the host calls
// BeginFrame and then Visit for every viewer camera that can see the
// surface (or ProcessFrame with the whole list). For each accepted viewer
// the surface derives a mirrored camera with an oblique near plane, asks
// the host Renderer to draw the scene into one of Capacity render targets
// and copies the result into a shared texture array that materials sample
// by index.
//
// Skipped viewers (behind the plane, too far away, or beyond Capacity in a
// frame) are a normal outcome and are never reported as errors.
package mirror
