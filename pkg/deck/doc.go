// Package deck defines the presentation data model shared by every SlideCraft
// component.
//
// A [Presentation] is an ordered list of [Slide] values plus a title and
// timestamps. Slide order is the only ordering signal; there is no separate
// sort key. Slides are typed ([TypeTitle], [TypeContent], [TypeSection]) and
// fields that do not apply to a slide's type are ignored by renderers rather
// than rejected.
//
// The layout engine treats presentations as immutable values: generators and
// editors produce new presentations, renderers only read them.
//
// # Validation
//
// [Validate] checks what the layout engine needs (known types, non-empty
// titles, unique ids) and deliberately accepts any slide count. The stricter
// product rules used by the generator live in [ValidateStructure].
package deck
