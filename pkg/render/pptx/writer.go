package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// ImageSource supplies the bytes behind image primitives. The returned
// content type decides the media part's extension.
type ImageSource interface {
	Fetch(ctx context.Context, src string) (data []byte, contentType string, err error)
}

// Metadata fills docProps/core.xml and docProps/app.xml.
type Metadata struct {
	Title       string
	Subject     string
	Author      string
	Company     string
	Application string
	Created     time.Time
}

// Document is everything needed to write one presentation file.
type Document struct {
	Metadata
	// Theme colors the master footer, slide number and theme part.
	Theme  theme.Theme
	Slides []geometry.Slide
}

// Writer serializes documents. The zero value writes decks without images.
type Writer struct {
	// Images fetches image sources. Nil skips every image primitive.
	Images ImageSource
	Logger *log.Logger
}

// Write encodes doc as a .pptx archive into w. Nothing is written to w
// unless the whole archive was built.
func (wr *Writer) Write(ctx context.Context, w io.Writer, doc Document) error {
	if len(doc.Slides) == 0 {
		return errors.New(errors.ErrCodeInvalidPresentation, "document has no slides")
	}
	if doc.Application == "" {
		doc.Application = "Slidecraft"
	}
	if doc.Created.IsZero() {
		doc.Created = time.Now()
	}
	if doc.Theme.Name == "" {
		doc.Theme = theme.At(0)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	media := map[string]string{}
	imageN := 0

	for i, s := range doc.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		sb := newSlideBuilder()
		rels := relationships{Xmlns: nsRelationships, Rels: []relationship{
			{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		}}
		bg := ""
		for j, p := range s.Primitives {
			switch {
			case j == 0 && isBackground(p):
				bg = backgroundXML(p)
			case p.Kind == geometry.KindText && p.Text != nil:
				sb.text(p)
			case p.Kind == geometry.KindImage:
				data, ext, ct, ok := wr.fetch(ctx, p.Source)
				if !ok {
					continue
				}
				imageN++
				name := fmt.Sprintf("image%d.%s", imageN, ext)
				if err := writeBytes(zw, "ppt/media/"+name, data); err != nil {
					return errors.Wrap(errors.ErrCodeExportFailed, err, "slide %d", i+1)
				}
				media[ext] = ct
				relID := fmt.Sprintf("rId%d", len(rels.Rels)+1)
				rels.Rels = append(rels.Rels, relationship{ID: relID, Type: relImage, Target: "../media/" + name})
				pic := picture{relID: relID}
				if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
					pic.crop = coverCrop(cfg.Width, cfg.Height, p.Box)
				}
				sb.picture(p, pic)
			default:
				sb.shape(p)
			}
		}
		path := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		if err := writeRaw(zw, path, slideXML(bg, sb.b.String())); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "slide %d", i+1)
		}
		if err := writeXML(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "slide %d", i+1)
		}
	}

	if err := writePackage(zw, doc, media); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write package parts")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "close archive")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write archive")
	}
	return nil
}

func writePackage(zw *zip.Writer, doc Document, media map[string]string) error {
	n := len(doc.Slides)
	steps := []func() error{
		func() error { return writeXML(zw, "[Content_Types].xml", buildContentTypes(n, media)) },
		func() error { return writeXML(zw, "_rels/.rels", rootRels()) },
		func() error { return writeRaw(zw, "docProps/core.xml", corePropsXML(doc.Metadata)) },
		func() error { return writeRaw(zw, "docProps/app.xml", appPropsXML(doc.Metadata, n)) },
		func() error { return writeRaw(zw, "ppt/presentation.xml", presentationXML(n)) },
		func() error { return writeXML(zw, "ppt/_rels/presentation.xml.rels", presentationRels(n)) },
		func() error { return writeRaw(zw, "ppt/presProps.xml", presPropsXML()) },
		func() error { return writeRaw(zw, "ppt/slideMasters/slideMaster1.xml", masterXML(doc.Theme)) },
		func() error { return writeXML(zw, "ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRels()) },
		func() error { return writeRaw(zw, "ppt/slideLayouts/slideLayout1.xml", layoutXML()) },
		func() error { return writeXML(zw, "ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRels()) },
		func() error { return writeRaw(zw, "ppt/theme/theme1.xml", themeXML(doc.Theme)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// fetch loads an image and reports ok=false when it should be skipped.
func (wr *Writer) fetch(ctx context.Context, src string) (data []byte, ext, contentType string, ok bool) {
	if wr.Images == nil || src == "" {
		return nil, "", "", false
	}
	data, contentType, err := wr.Images.Fetch(ctx, src)
	if err != nil {
		wr.logger().Warn("skipping image", "src", src, "err", err)
		return nil, "", "", false
	}
	ext, contentType = mediaType(data, contentType)
	if ext == "" {
		wr.logger().Warn("skipping image with unsupported format", "src", src, "type", contentType)
		return nil, "", "", false
	}
	return data, ext, contentType, true
}

func (wr *Writer) logger() *log.Logger {
	if wr.Logger == nil {
		return log.New(io.Discard)
	}
	return wr.Logger
}

var mediaTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
}

// mediaType decides the extension from the declared type, falling back to
// sniffing the bytes.
func mediaType(data []byte, declared string) (ext, contentType string) {
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if ext, ok := mediaTypes[declared]; ok {
		return ext, declared
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		ct := "image/" + format
		if ext, ok := mediaTypes[ct]; ok {
			return ext, ct
		}
	}
	return "", declared
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
