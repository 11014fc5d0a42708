// Package pptx serializes resolved slides into an Office Open XML
// presentation (.pptx).
//
// The package writes the minimum part set PowerPoint, Keynote and
// LibreOffice accept: content types, package relationships, document
// properties, one slide master with one layout and one theme, and one slide
// part per [geometry.Slide]. Primitives map onto DrawingML as follows:
//
//	rect, ellipse, triangle -> p:sp with prstGeom rect / ellipse / rtTriangle
//	text                     -> p:sp with a txBody (title and subtitle roles
//	                            become placeholders so readers detect them)
//	image                    -> p:pic with an embedded media part
//	full-bleed background    -> the slide's p:bg fill
//
// Canvas units are scaled linearly to EMU so that the 10-unit-wide canvas
// fills a 13.333 × 7.5 inch widescreen page.
//
// The slide master carries a footer rule and a slide-number field in the
// document theme's colors; they show on every slide above the background
// and beneath slide content.
package pptx
