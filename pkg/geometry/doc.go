// Package geometry expands a slide into the ordered list of drawing
// primitives both renderers consume.
//
// # Canvas
//
// Every primitive is placed on a normalized 16:9 canvas of [Width] × [Height]
// units. One unit is one inch of a 10-inch-wide reference page and font sizes
// are points on that reference page, so any target surface is reached by a
// single linear scale factor:
//
//	svg:  128 px per unit   -> 1280 × 720
//	pptx: 1219200 EMU per unit -> 13.333 × 7.5 in
//
// # Recipes
//
// Each (slide type, layout variant) pair maps to one pure recipe function in
// a closed lookup table. [Resolve] dispatches through the table; [ResolveAt]
// and [Deck] add the position-based selection from package layout.
//
// Primitives are returned back to front: later entries occlude earlier ones.
// Text boxes never intersect primitives with [RoleAccent]; accents that carry
// a label use [RoleBadge] text inside them instead.
//
// Resolution performs no I/O. The only failure is malformed input: an unknown
// slide type or variant.
package geometry
