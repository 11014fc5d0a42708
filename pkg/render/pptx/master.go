package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Footer placement on the master, in inches.
const (
	footerRuleY     = 7.0
	footerRuleInset = 0.5
	slideNumberX    = 12.0
	slideNumberY    = 7.05
)

func masterRels() relationships {
	return relationships{Xmlns: nsRelationships, Rels: []relationship{
		{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		{ID: "rId2", Type: relTheme, Target: "../theme/theme1.xml"},
	}}
}

func layoutRels() relationships {
	return relationships{Xmlns: nsRelationships, Rels: []relationship{
		{ID: "rId1", Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
	}}
}

func inch(v float64) int64 { return int64(v*EMUPerInch + 0.5) }

func masterXML(th theme.Theme) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawing, nsOfficeRels, nsPresentation)
	b.WriteString(`<p:cSld>`)
	fmt.Fprintf(&b, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, th.Background)
	b.WriteString(`<p:spTree>`)
	b.WriteString(groupProps)

	// Footer rule.
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Footer Rule"/><p:cNvSpPr/><p:nvPr userDrawn="1"/></p:nvSpPr>`)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		inch(footerRuleInset), inch(footerRuleY), SlideCX-2*inch(footerRuleInset), inch(0.02))
	fmt.Fprintf(&b, `<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:ln><a:noFill/></a:ln></p:spPr>`, th.Secondary)
	b.WriteString(`</p:sp>`)

	// Slide number.
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Slide Number"/><p:cNvSpPr txBox="1"/><p:nvPr userDrawn="1"/></p:nvSpPr>`)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
		inch(slideNumberX), inch(slideNumberY), inch(0.9), inch(0.35))
	b.WriteString(`<p:txBody><a:bodyPr wrap="none" lIns="0" tIns="0" rIns="0" bIns="0" anchor="ctr"/><a:lstStyle/>`)
	fmt.Fprintf(&b, `<a:p><a:pPr algn="r"/><a:fld id="{B6F15528-21DE-4FAA-801E-634DDDAF4B2B}" type="slidenum"><a:rPr lang="en-US" sz="1000"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="Inter"/></a:rPr><a:t>‹#›</a:t></a:fld></a:p>`, th.LightText)
	b.WriteString(`</p:txBody></p:sp>`)

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`)
	b.WriteString(`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"/></a:lvl1pPr></p:titleStyle><p:bodyStyle><a:lvl1pPr><a:defRPr sz="2000"/></a:lvl1pPr></p:bodyStyle><p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle></p:txStyles>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func layoutXML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" type="title" preserve="1">`, nsDrawing, nsOfficeRels, nsPresentation)
	b.WriteString(`<p:cSld name="Title Slide"><p:spTree>`)
	b.WriteString(groupProps)
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr><p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`,
		inch(0.67), inch(2.13), inch(12.0), inch(1.87))
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="3" name="Subtitle 2"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="subTitle" idx="1"/></p:nvPr></p:nvSpPr><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr><p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`,
		inch(1.33), inch(4.13), inch(10.67), inch(1.07))
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`)
	return b.String()
}

const groupProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func themeXML(th theme.Theme) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<a:theme xmlns:a="%s" name="%s">`, nsDrawing, esc(th.Name))
	b.WriteString(`<a:themeElements>`)
	fmt.Fprintf(&b, `<a:clrScheme name="%s">`, esc(th.Name))
	fmt.Fprintf(&b, `<a:dk1><a:srgbClr val="%s"/></a:dk1>`, th.Text)
	fmt.Fprintf(&b, `<a:lt1><a:srgbClr val="%s"/></a:lt1>`, th.Background)
	fmt.Fprintf(&b, `<a:dk2><a:srgbClr val="%s"/></a:dk2>`, th.Primary)
	fmt.Fprintf(&b, `<a:lt2><a:srgbClr val="%s"/></a:lt2>`, "F3F4F6")
	fmt.Fprintf(&b, `<a:accent1><a:srgbClr val="%s"/></a:accent1>`, th.Primary)
	fmt.Fprintf(&b, `<a:accent2><a:srgbClr val="%s"/></a:accent2>`, th.Secondary)
	fmt.Fprintf(&b, `<a:accent3><a:srgbClr val="%s"/></a:accent3>`, th.Accent)
	fmt.Fprintf(&b, `<a:accent4><a:srgbClr val="%s"/></a:accent4>`, th.LightText)
	fmt.Fprintf(&b, `<a:accent5><a:srgbClr val="%s"/></a:accent5>`, th.Text)
	fmt.Fprintf(&b, `<a:accent6><a:srgbClr val="%s"/></a:accent6>`, th.Background)
	fmt.Fprintf(&b, `<a:hlink><a:srgbClr val="%s"/></a:hlink>`, th.Secondary)
	fmt.Fprintf(&b, `<a:folHlink><a:srgbClr val="%s"/></a:folHlink>`, th.Primary)
	b.WriteString(`</a:clrScheme>`)
	b.WriteString(`<a:fontScheme name="Slidecraft">`)
	b.WriteString(`<a:majorFont><a:latin typeface="Poppins"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`)
	b.WriteString(`<a:minorFont><a:latin typeface="Inter"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`)
	b.WriteString(`</a:fontScheme>`)
	b.WriteString(fmtScheme)
	b.WriteString(`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`)
	return b.String()
}

// PowerPoint rejects a theme whose style lists hold fewer than three entries.
const fmtScheme = `<a:fmtScheme name="Slidecraft">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"><a:tint val="50000"/></a:schemeClr></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"><a:shade val="80000"/></a:schemeClr></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"><a:tint val="95000"/></a:schemeClr></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"><a:shade val="90000"/></a:schemeClr></a:solidFill>` +
	`</a:bgFillStyleLst>` +
	`</a:fmtScheme>`
