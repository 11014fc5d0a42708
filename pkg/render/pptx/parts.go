package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relSlide       = nsOfficeRels + "/slide"
	relSlideMaster = nsOfficeRels + "/slideMaster"
	relSlideLayout = nsOfficeRels + "/slideLayout"
	relTheme       = nsOfficeRels + "/theme"
	relPresProps   = nsOfficeRels + "/presProps"
	relImage       = nsOfficeRels + "/image"
	relOfficeDoc   = nsOfficeRels + "/officeDocument"
	relExtProps    = nsOfficeRels + "/extended-properties"
	relCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

// Page size in EMU (13.333 × 7.5 in).
const (
	SlideCX = 12192000
	SlideCY = 6858000
	NotesCX = 6858000
	NotesCY = 9144000
)

// EMUPerInch is the DrawingML unit density.
const EMUPerInch = 914400

type contentTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Xmlns     string       `xml:"xmlns,attr"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func writeXML(zw *zip.Writer, path string, v any) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := fw.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(fw)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func writeRaw(zw *zip.Writer, path, content string) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err = fw.Write([]byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeBytes(zw *zip.Writer, path string, data []byte) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err = fw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func buildContentTypes(slides int, media map[string]string) contentTypes {
	ct := contentTypes{
		Xmlns: nsContentTypes,
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []ctOverride{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/presProps.xml", ContentType: ctPresProps},
			{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			{PartName: "/ppt/slideLayouts/slideLayout1.xml", ContentType: ctSlideLayout},
			{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
			{PartName: "/docProps/app.xml", ContentType: ctExtProps},
		},
	}
	for _, ext := range sortedKeys(media) {
		ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: media[ext]})
	}
	for i := 1; i <= slides; i++ {
		ct.Overrides = append(ct.Overrides, ctOverride{
			PartName:    fmt.Sprintf("/ppt/slides/slide%d.xml", i),
			ContentType: ctSlide,
		})
	}
	return ct
}

func rootRels() relationships {
	return relationships{Xmlns: nsRelationships, Rels: []relationship{
		{ID: "rId1", Type: relOfficeDoc, Target: "ppt/presentation.xml"},
		{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
		{ID: "rId3", Type: relExtProps, Target: "docProps/app.xml"},
	}}
}

// presentationRels places the master first so slide rIds start at rId4.
func presentationRels(slides int) relationships {
	r := relationships{Xmlns: nsRelationships, Rels: []relationship{
		{ID: "rId1", Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"},
		{ID: "rId2", Type: relTheme, Target: "theme/theme1.xml"},
		{ID: "rId3", Type: relPresProps, Target: "presProps.xml"},
	}}
	for i := 1; i <= slides; i++ {
		r.Rels = append(r.Rels, relationship{
			ID:     fmt.Sprintf("rId%d", i+3),
			Type:   relSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i),
		})
	}
	return r
}

func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`, nsDrawing, nsOfficeRels, nsPresentation)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slides; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+4)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, SlideCX, SlideCY)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, NotesCX, NotesCY)
	b.WriteString(`<p:defaultTextStyle/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presPropsXML() string {
	return xml.Header + fmt.Sprintf(`<p:presentationPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`, nsDrawing, nsOfficeRels, nsPresentation)
}

func corePropsXML(meta Metadata) string {
	created := meta.Created.UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, esc(meta.Title))
	fmt.Fprintf(&b, `<dc:subject>%s</dc:subject>`, esc(meta.Subject))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, esc(meta.Author))
	fmt.Fprintf(&b, `<cp:lastModifiedBy>%s</cp:lastModifiedBy>`, esc(meta.Author))
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, created)
	fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, created)
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func appPropsXML(meta Metadata, slides int) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	fmt.Fprintf(&b, `<Application>%s</Application>`, esc(meta.Application))
	fmt.Fprintf(&b, `<Slides>%d</Slides>`, slides)
	fmt.Fprintf(&b, `<Company>%s</Company>`, esc(meta.Company))
	b.WriteString(`<PresentationFormat>Widescreen</PresentationFormat>`)
	b.WriteString(`</Properties>`)
	return b.String()
}

func esc(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
