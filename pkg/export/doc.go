// Package export assembles a whole deck into one downloadable document.
//
// An [Exporter] resolves every slide with a single theme, serializes the
// result in memory and only then hands the blob to a [Saver]. Any failure,
// a panic inside the document writer included, is turned into an
// EXPORT_FAILED error and a "Download Failed" notification; the saver is
// never called, so no partial file can appear.
//
//	e := export.New(export.WithSaver(export.FileSaver{Dir: "out"}))
//	res, err := e.Export(ctx, p)
//	fmt.Println(res.Path) // out/My Deck_2024-03-01.pptx
package export
