package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenPrinting/goipp"

	"vprinter/driver"
	"vprinter/media"
)

// Built-in document formats every printer accepts regardless of driver
var builtinFormats = []string{
	"application/octet-stream",
	"image/pwg-raster",
	"image/urf",
}

// deviceIDCommands translates document formats into IEEE-1284 CMD tokens
// when deriving printer-device-id. application/octet-stream is deliberately
// absent.
var deviceIDCommands = []struct {
	Format  string
	Command string
}{
	{"application/pdf", "PDF"},
	{"application/postscript", "PS"},
	{"image/jpeg", "JPEG"},
	{"image/png", "PNG"},
	{"image/pwg-raster", "PWGRaster"},
	{"image/urf", "URF"},
}

// makeAttrs synthesizes the full IPP capability attribute collection from a
// validated capability record and system context. The output is a brand-new
// collection; callers swap it in whole under the printer write lock. An
// attribute that would have zero values is omitted entirely, and a bit with
// no keyword mapping degrades to a placeholder rather than aborting.
func makeAttrs(sys *System, d *driver.Data) goipp.Attributes {
	var attrs goipp.Attributes

	formats := documentFormats(sys, d)
	pdfCapable := memberOf(formats, "application/pdf")

	// color-supported
	color := d.ColorModes&driver.ColorModeColor != 0 || d.PPMColor > 0
	attrs.Add(goipp.MakeAttribute("color-supported", goipp.TagBoolean, goipp.Boolean(color)))

	// copies-supported
	attrs.Add(goipp.MakeAttribute("copies-supported", goipp.TagRange, goipp.Range{Lower: 1, Upper: 999}))

	// document-format-default/-preferred/-supported
	if d.Format != "" {
		attrs.Add(goipp.MakeAttribute("document-format-default", goipp.TagMimeType, goipp.String(d.Format)))
	}
	preferred := "image/urf"
	if pdfCapable {
		preferred = "application/pdf"
	}
	attrs.Add(goipp.MakeAttribute("document-format-preferred", goipp.TagMimeType, goipp.String(preferred)))
	attrs.Add(mimeAttr("document-format-supported", formats))

	// finishings: the enum list, the finishings-col collections, and the
	// template keywords are parallel arrays driven by the same table order,
	// so index i refers to the same finishing in each.
	fEnums := append([]int{driver.FinishingNoneEnum}, d.Finishings.Enums()...)
	fTemplates := append([]string{"none"}, d.Finishings.Keywords()...)

	attrs.Add(kwAttr("finishing-template-supported", fTemplates))

	fCols := goipp.Attribute{Name: "finishings-col-database"}
	for _, tmpl := range fTemplates {
		fCols.Values.Add(goipp.TagBeginCollection, finishingCol(tmpl))
	}
	attrs.Add(fCols)

	fDefault := goipp.Attribute{Name: "finishings-col-default"}
	fDefault.Values.Add(goipp.TagBeginCollection, finishingCol("none"))
	attrs.Add(fDefault)

	attrs.Add(goipp.MakeAttribute("finishings-default", goipp.TagEnum, goipp.Integer(driver.FinishingNoneEnum)))
	attrs.Add(enumAttr("finishings-supported", fEnums))

	// identify-actions
	if d.IdentifyActions != 0 {
		if d.IdentifyDefault != 0 {
			attrs.Add(kwAttr("identify-actions-default", d.IdentifyDefault.Keywords()))
		}
		attrs.Add(kwAttr("identify-actions-supported", d.IdentifyActions.Keywords()))
	}

	// ipp-features-supported
	features := append([]string{"ipp-everywhere"}, d.Features.Keywords()...)
	features = append(features, d.VendorFeatures...)
	attrs.Add(kwAttr("ipp-features-supported", features))

	// job-creation-attributes-supported
	attrs.Add(kwAttr("job-creation-attributes-supported", jobCreationAttributes(d, pdfCapable)))

	// label-tear-offset
	if d.TearOffset[1] > d.TearOffset[0] {
		attrs.Add(goipp.MakeAttribute("label-tear-offset-configured", goipp.TagInteger, goipp.Integer(d.TearOffsetConfigured)))
		attrs.Add(goipp.MakeAttribute("label-tear-offset-supported", goipp.TagRange,
			goipp.Range{Lower: d.TearOffset[0], Upper: d.TearOffset[1]}))
	}

	// media margins
	attrs.Add(intAttr("media-bottom-margin-supported", marginValues(d.BottomTopMargin, d.Borderless)))

	// media-col-database and media-size-supported walk the supported media
	// in lock-step
	database, sizes := mediaDatabase(sys, d)
	if len(database.Values) > 0 {
		attrs.Add(database)
	}

	attrs.Add(mediaColAttr("media-col-default", []driver.MediaCol{d.MediaDefault}))

	ready := readyMedia(d)
	if len(ready) > 0 {
		attrs.Add(mediaColAttr("media-col-ready", ready))
	}

	if d.MediaDefault.SizeName != "" {
		attrs.Add(goipp.MakeAttribute("media-default", goipp.TagKeyword, goipp.String(d.MediaDefault.SizeName)))
	}

	attrs.Add(intAttr("media-left-margin-supported", marginValues(d.LeftRightMargin, d.Borderless)))

	if d.LeftOffsets[1] > d.LeftOffsets[0] {
		attrs.Add(goipp.MakeAttribute("media-left-offset-supported", goipp.TagRange,
			goipp.Range{Lower: d.LeftOffsets[0], Upper: d.LeftOffsets[1]}))
	}

	if len(ready) > 0 {
		names := make([]string, 0, len(ready))
		for _, m := range ready {
			names = append(names, m.SizeName)
		}
		attrs.Add(kwAttr("media-ready", names))
	}

	attrs.Add(intAttr("media-right-margin-supported", marginValues(d.LeftRightMargin, d.Borderless)))

	if len(sizes.Values) > 0 {
		attrs.Add(sizes)
	}

	if len(d.Source) > 0 {
		attrs.Add(kwAttr("media-source-supported", d.Source))
	}

	// media-supported is omitted entirely when there are no media entries;
	// IPP forbids attributes with zero values
	if len(d.Media) > 0 {
		attrs.Add(kwAttr("media-supported", d.Media))
	}

	attrs.Add(intAttr("media-top-margin-supported", marginValues(d.BottomTopMargin, d.Borderless)))

	if d.TopOffsets[1] > d.TopOffsets[0] {
		attrs.Add(goipp.MakeAttribute("media-top-offset-supported", goipp.TagRange,
			goipp.Range{Lower: d.TopOffsets[0], Upper: d.TopOffsets[1]}))
	}

	if d.MediaTracking != 0 {
		attrs.Add(kwAttr("media-tracking-supported", d.MediaTracking.Keywords()))
	}

	if len(d.Type) > 0 {
		attrs.Add(kwAttr("media-type-supported", d.Type))
	}

	// multiple-document-handling / orientation (static job ceilings)
	attrs.Add(kwAttr("multiple-document-handling-supported", []string{
		"separate-documents-collated-copies",
		"separate-documents-uncollated-copies",
	}))
	attrs.Add(enumAttr("orientation-requested-supported", []int{3, 4, 5, 6, 7}))

	// output bins
	bins := d.Bin
	if len(bins) == 0 {
		if d.OutputFaceUp {
			bins = []string{"face-up"}
		} else {
			bins = []string{"face-down"}
		}
	}
	binDefault := 0
	if len(d.Bin) > 0 && d.BinDefault >= 0 && d.BinDefault < len(d.Bin) {
		binDefault = d.BinDefault
	}
	attrs.Add(goipp.MakeAttribute("output-bin-default", goipp.TagKeyword, goipp.String(bins[binDefault])))
	attrs.Add(kwAttr("output-bin-supported", bins))

	// pages-per-minute
	attrs.Add(goipp.MakeAttribute("pages-per-minute", goipp.TagInteger, goipp.Integer(d.PPM)))
	if d.PPMColor > 0 {
		attrs.Add(goipp.MakeAttribute("pages-per-minute-color", goipp.TagInteger, goipp.Integer(d.PPMColor)))
	}

	// print-color-mode
	if d.ColorModeDefault != 0 {
		attrs.Add(goipp.MakeAttribute("print-color-mode-default", goipp.TagKeyword, goipp.String(d.ColorModeDefault.Keyword())))
	}
	if d.ColorModes != 0 {
		attrs.Add(kwAttr("print-color-mode-supported", d.ColorModes.Keywords()))
	}

	// print-content-optimize
	content := d.ContentDefault
	if content == "" {
		content = "auto"
	}
	attrs.Add(goipp.MakeAttribute("print-content-optimize-default", goipp.TagKeyword, goipp.String(content)))
	attrs.Add(kwAttr("print-content-optimize-supported", []string{"auto", "graphic", "photo", "text", "text-and-graphic"}))

	// darkness
	if d.Darkness > 0 {
		attrs.Add(goipp.MakeAttribute("print-darkness-default", goipp.TagInteger, goipp.Integer(0)))
		attrs.Add(goipp.MakeAttribute("print-darkness-supported", goipp.TagRange, goipp.Range{Lower: -100, Upper: 100}))
		attrs.Add(goipp.MakeAttribute("printer-darkness-configured", goipp.TagInteger, goipp.Integer(d.DarknessConfigured)))
		attrs.Add(goipp.MakeAttribute("printer-darkness-supported", goipp.TagInteger, goipp.Integer(d.Darkness)))
	}

	// print-quality
	quality := d.QualityDefault
	if quality == 0 {
		quality = 4 // normal
	}
	attrs.Add(goipp.MakeAttribute("print-quality-default", goipp.TagEnum, goipp.Integer(quality)))
	attrs.Add(enumAttr("print-quality-supported", []int{3, 4, 5}))

	// print-scaling
	attrs.Add(goipp.MakeAttribute("print-scaling-default", goipp.TagKeyword, goipp.String("auto")))
	attrs.Add(kwAttr("print-scaling-supported", []string{"auto", "auto-fit", "fill", "fit", "none"}))

	// print-speed
	if d.Speed[1] > 0 {
		speed := d.SpeedDefault
		if speed == 0 {
			speed = d.Speed[1]
		}
		attrs.Add(goipp.MakeAttribute("print-speed-default", goipp.TagInteger, goipp.Integer(speed)))
		attrs.Add(goipp.MakeAttribute("print-speed-supported", goipp.TagRange,
			goipp.Range{Lower: d.Speed[0], Upper: d.Speed[1]}))
	}

	// printer-device-id
	attrs.Add(goipp.MakeAttribute("printer-device-id", goipp.TagText, goipp.String(deviceID(d, formats))))

	// printer-input-tray
	if len(d.Source) > 0 {
		tray := goipp.Attribute{Name: "printer-input-tray"}
		for _, src := range d.Source {
			tray.Values.Add(goipp.TagString, goipp.Binary(inputTrayString(src)))
		}
		attrs.Add(tray)
	}

	// printer-kind
	kinds := d.Kind.Keywords()
	if len(kinds) == 0 {
		kinds = []string{"document"}
	}
	attrs.Add(kwAttr("printer-kind", kinds))

	// printer-make-and-model
	attrs.Add(goipp.MakeAttribute("printer-make-and-model", goipp.TagText, goipp.String(d.MakeAndModel)))

	// printer-output-tray, parallel to output-bin-supported
	outTray := goipp.Attribute{Name: "printer-output-tray"}
	for _, bin := range bins {
		outTray.Values.Add(goipp.TagString, goipp.Binary(outputTrayString(bin, d.OutputFaceUp)))
	}
	attrs.Add(outTray)

	// printer-resolution
	attrs.Add(goipp.MakeAttribute("printer-resolution-default", goipp.TagResolution, resolutionValue(d.ResolutionDefault)))
	attrs.Add(resAttr("printer-resolution-supported", d.Resolutions))

	// printer-settable-attributes-supported
	attrs.Add(kwAttr("printer-settable-attributes-supported", settableAttributes(d)))

	// pwg-raster-document-*
	attrs.Add(resAttr("pwg-raster-document-resolution-supported", d.Resolutions))
	if back := d.Duplex.SheetBack(); back != "" {
		attrs.Add(goipp.MakeAttribute("pwg-raster-document-sheet-back", goipp.TagKeyword, goipp.String(back)))
	}
	attrs.Add(kwAttr("pwg-raster-document-type-supported", d.RasterTypes.Keywords()))

	// sides
	sides := d.Sides.Keywords()
	if len(sides) == 0 {
		sides = []string{"one-sided"}
	}
	sidesDefault := "one-sided"
	if d.SidesDefault != 0 {
		sidesDefault = d.SidesDefault.Keyword()
	}
	attrs.Add(goipp.MakeAttribute("sides-default", goipp.TagKeyword, goipp.String(sidesDefault)))
	attrs.Add(kwAttr("sides-supported", sides))

	// urf-supported
	attrs.Add(kwAttr("urf-supported", urfTokens(d)))

	return attrs
}

// documentFormats builds document-format-supported: built-in formats, the
// driver's native format, and the source format of every registered filter
// whose destination is the native format, de-duplicated in that order.
func documentFormats(sys *System, d *driver.Data) []string {
	formats := append([]string(nil), builtinFormats...)
	if d.Format != "" && !memberOf(formats, d.Format) {
		formats = append(formats, d.Format)
	}
	for _, src := range sys.filterSources(d.Format) {
		if !memberOf(formats, src) {
			formats = append(formats, src)
		}
	}
	return formats
}

// jobCreationAttributes builds the job-creation-attributes-supported list:
// a fixed base extended by capability-dependent entries and vendor names
func jobCreationAttributes(d *driver.Data, pdfCapable bool) []string {
	out := []string{
		"copies",
		"document-format",
		"document-name",
		"ipp-attribute-fidelity",
		"job-name",
		"job-priority",
		"media",
		"media-col",
		"multiple-document-handling",
		"orientation-requested",
		"print-color-mode",
		"print-content-optimize",
		"print-quality",
		"print-scaling",
		"printer-resolution",
	}
	if d.Finishings != 0 {
		out = append(out, "finishings", "finishings-col")
	}
	if len(d.Bin) > 0 {
		out = append(out, "output-bin")
	}
	if pdfCapable {
		out = append(out, "page-ranges")
	}
	if d.Darkness > 0 {
		out = append(out, "print-darkness")
	}
	if d.Speed[1] > 0 {
		out = append(out, "print-speed")
	}
	if d.Sides != 0 && d.Sides != driver.SideOneSided {
		out = append(out, "sides")
	}
	out = append(out, d.VendorNames...)
	return out
}

// settableAttributes lists the "-default"/configured attributes an
// administrator may set
func settableAttributes(d *driver.Data) []string {
	out := []string{
		"media-col-default",
		"media-col-ready",
		"media-default",
		"media-ready",
		"output-bin-default",
		"print-color-mode-default",
		"print-content-optimize-default",
		"print-quality-default",
		"printer-resolution-default",
		"sides-default",
	}
	if d.IdentifyActions != 0 {
		out = append(out, "identify-actions-default")
	}
	if d.Darkness > 0 {
		out = append(out, "print-darkness-default", "printer-darkness-configured")
	}
	if d.Speed[1] > 0 {
		out = append(out, "print-speed-default")
	}
	for _, name := range d.VendorNames {
		out = append(out, name+"-default")
	}
	return out
}

// marginValues yields the supported margin list: the configured margin,
// preceded by zero when borderless printing adds it as a distinct choice
func marginValues(margin int, borderless bool) []int {
	if borderless && margin > 0 {
		return []int{0, margin}
	}
	return []int{margin}
}

// mediaDatabase builds media-col-database and media-size-supported together
// from one walk over the supported media. Concrete sizes produce one entry
// each (doubled at zero margin when borderless applies); a min/max pseudo
// pair produces one parametrized range entry, its upper bounds clamped to
// the largest size the system's image ceilings allow. A walk that yields
// nothing (no media, or an unpaired range bound) falls back to the default
// media so the database is only empty when the default is too.
func mediaDatabase(sys *System, d *driver.Data) (goipp.Attribute, goipp.Attribute) {
	database := goipp.Attribute{Name: "media-col-database"}
	sizeSupported := goipp.Attribute{Name: "media-size-supported"}

	var minSize, maxSize *media.Size

	for _, name := range d.Media {
		size, ok := media.Parse(name)
		if !ok {
			// Validation should have excluded this; skip rather than abort
			continue
		}
		if media.IsMin(name) {
			s := size
			minSize = &s
			continue
		}
		if media.IsMax(name) {
			s := size
			maxSize = &s
			continue
		}

		col := driver.MediaCol{
			SizeName:     size.Name,
			Width:        size.Width,
			Length:       size.Length,
			BottomMargin: d.BottomTopMargin,
			TopMargin:    d.BottomTopMargin,
			LeftMargin:   d.LeftRightMargin,
			RightMargin:  d.LeftRightMargin,
		}

		// Borderless plus positive margins doubles the entry: once at zero
		// margin, once at the configured margins
		if d.Borderless && (d.BottomTopMargin > 0 || d.LeftRightMargin > 0) {
			zero := col
			zero.BottomMargin, zero.TopMargin = 0, 0
			zero.LeftMargin, zero.RightMargin = 0, 0
			database.Values.Add(goipp.TagBeginCollection, mediaCol(zero, false))
		}
		database.Values.Add(goipp.TagBeginCollection, mediaCol(col, false))

		sizeSupported.Values.Add(goipp.TagBeginCollection, sizeCol(size.Width, size.Length))
	}

	if minSize != nil && maxSize != nil {
		upperW, upperL := maxSize.Width, maxSize.Length
		if w, l, ok := sys.maxRasterSize(d); ok {
			if w < upperW {
				upperW = w
			}
			if l < upperL {
				upperL = l
			}
		}
		if upperW < minSize.Width {
			upperW = minSize.Width
		}
		if upperL < minSize.Length {
			upperL = minSize.Length
		}
		rangeSize := goipp.Collection{
			goipp.MakeAttribute("x-dimension", goipp.TagRange, goipp.Range{Lower: minSize.Width, Upper: upperW}),
			goipp.MakeAttribute("y-dimension", goipp.TagRange, goipp.Range{Lower: minSize.Length, Upper: upperL}),
		}
		rangeCol := goipp.Collection{
			goipp.MakeAttribute("media-bottom-margin", goipp.TagInteger, goipp.Integer(d.BottomTopMargin)),
			goipp.MakeAttribute("media-left-margin", goipp.TagInteger, goipp.Integer(d.LeftRightMargin)),
			goipp.MakeAttribute("media-right-margin", goipp.TagInteger, goipp.Integer(d.LeftRightMargin)),
			goipp.MakeAttribute("media-size", goipp.TagBeginCollection, rangeSize),
			goipp.MakeAttribute("media-top-margin", goipp.TagInteger, goipp.Integer(d.BottomTopMargin)),
		}
		database.Values.Add(goipp.TagBeginCollection, rangeCol)
		sizeSupported.Values.Add(goipp.TagBeginCollection, rangeSize)
	}

	if len(database.Values) == 0 {
		if size, ok := media.Parse(d.MediaDefault.SizeName); ok {
			col := driver.MediaCol{
				SizeName:     size.Name,
				Width:        size.Width,
				Length:       size.Length,
				BottomMargin: d.BottomTopMargin,
				TopMargin:    d.BottomTopMargin,
				LeftMargin:   d.LeftRightMargin,
				RightMargin:  d.LeftRightMargin,
			}
			database.Values.Add(goipp.TagBeginCollection, mediaCol(col, false))
			sizeSupported.Values.Add(goipp.TagBeginCollection, sizeCol(size.Width, size.Length))
		}
	}

	return database, sizeSupported
}

// readyMedia returns the non-empty loaded media entries
func readyMedia(d *driver.Data) []driver.MediaCol {
	var out []driver.MediaCol
	for _, m := range d.MediaReady {
		if !m.IsZero() {
			out = append(out, m)
		}
	}
	return out
}

// mediaColAttr builds a 1setOf media-col attribute
func mediaColAttr(name string, cols []driver.MediaCol) goipp.Attribute {
	attr := goipp.Attribute{Name: name}
	for _, m := range cols {
		attr.Values.Add(goipp.TagBeginCollection, mediaCol(m, true))
	}
	return attr
}

// mediaCol exports a MediaCol as an IPP collection, member attributes in
// alphabetical order. full adds source/type/tracking/offset members when
// present.
func mediaCol(m driver.MediaCol, full bool) goipp.Collection {
	col := goipp.Collection{
		goipp.MakeAttribute("media-bottom-margin", goipp.TagInteger, goipp.Integer(m.BottomMargin)),
		goipp.MakeAttribute("media-left-margin", goipp.TagInteger, goipp.Integer(m.LeftMargin)),
	}
	if full && m.LeftOffset != 0 {
		col = append(col, goipp.MakeAttribute("media-left-offset", goipp.TagInteger, goipp.Integer(m.LeftOffset)))
	}
	col = append(col,
		goipp.MakeAttribute("media-right-margin", goipp.TagInteger, goipp.Integer(m.RightMargin)),
		goipp.MakeAttribute("media-size", goipp.TagBeginCollection, sizeCol(m.Width, m.Length)),
	)
	if m.SizeName != "" {
		col = append(col, goipp.MakeAttribute("media-size-name", goipp.TagKeyword, goipp.String(m.SizeName)))
	}
	if full && m.Source != "" {
		col = append(col, goipp.MakeAttribute("media-source", goipp.TagKeyword, goipp.String(m.Source)))
	}
	col = append(col, goipp.MakeAttribute("media-top-margin", goipp.TagInteger, goipp.Integer(m.TopMargin)))
	if full && m.TopOffset != 0 {
		col = append(col, goipp.MakeAttribute("media-top-offset", goipp.TagInteger, goipp.Integer(m.TopOffset)))
	}
	if full && m.Tracking != 0 {
		col = append(col, goipp.MakeAttribute("media-tracking", goipp.TagKeyword, goipp.String(m.Tracking.Keyword())))
	}
	if full && m.Type != "" {
		col = append(col, goipp.MakeAttribute("media-type", goipp.TagKeyword, goipp.String(m.Type)))
	}
	return col
}

func sizeCol(width, length int) goipp.Collection {
	return goipp.Collection{
		goipp.MakeAttribute("x-dimension", goipp.TagInteger, goipp.Integer(width)),
		goipp.MakeAttribute("y-dimension", goipp.TagInteger, goipp.Integer(length)),
	}
}

func finishingCol(template string) goipp.Collection {
	return goipp.Collection{
		goipp.MakeAttribute("finishing-template", goipp.TagKeyword, goipp.String(template)),
	}
}

// deviceID passes through the driver's device ID, or derives one by
// splitting make-and-model at the first space and translating every
// supported format through the fixed CMD table
func deviceID(d *driver.Data, formats []string) string {
	if d.DeviceID != "" {
		return d.DeviceID
	}

	mfg, mdl := d.MakeAndModel, d.MakeAndModel
	if idx := strings.IndexByte(d.MakeAndModel, ' '); idx > 0 {
		mfg = d.MakeAndModel[:idx]
		mdl = d.MakeAndModel[idx+1:]
	}

	var cmds []string
	for _, e := range deviceIDCommands {
		if memberOf(formats, e.Format) {
			cmds = append(cmds, e.Command)
		}
	}

	id := fmt.Sprintf("MFG:%s;MDL:%s;", mfg, mdl)
	if len(cmds) > 0 {
		id += "CMD:" + strings.Join(cmds, ",") + ";"
	}
	return id
}

func inputTrayString(source string) []byte {
	return []byte(fmt.Sprintf("type=sheetFeedAutoRemovableTray;mediafeed=0;mediaxfeed=0;maxcapacity=-2;level=-2;status=0;name=%s", source))
}

func outputTrayString(bin string, faceUp bool) []byte {
	stacking, delivery := "lastToFirst", "faceDown"
	if faceUp {
		stacking, delivery = "firstToLast", "faceUp"
	}
	return []byte(fmt.Sprintf("type=unRemovableBin;maxcapacity=-2;remaining=-2;status=5;stackingorder=%s;pagedelivery=%s;name=%s", stacking, delivery, bin))
}

// urfTokens re-derives the compact URF capability strings. Token content
// depends on the ordinal position of entries in the fixed lookup tables in
// the driver package; emission order here is fixed so synthesis is
// deterministic.
func urfTokens(d *driver.Data) []string {
	tokens := []string{"V1.4", "CP1"}

	tokens = append(tokens, d.RasterTypes.URFTokens()...)

	if dm := d.Duplex.URFToken(); dm != "" {
		tokens = append(tokens, dm)
	}

	if d.Finishings != 0 {
		parts := []string{fmt.Sprint(driver.FinishingNoneEnum)}
		for _, e := range d.Finishings.Enums() {
			parts = append(parts, fmt.Sprint(e))
		}
		tokens = append(tokens, "FN"+strings.Join(parts, "-"))
	}

	if tok := ordinalToken("IS", d.Source, driver.URFSourceCode); tok != "" {
		tokens = append(tokens, tok)
	}
	if tok := ordinalToken("MT", d.Type, driver.URFTypeCode); tok != "" {
		tokens = append(tokens, tok)
	}
	if tok := ordinalToken("OB", d.Bin, driver.URFBinCode); tok != "" {
		tokens = append(tokens, tok)
	}

	tokens = append(tokens, "PQ3-4-5")

	if len(d.Resolutions) > 0 {
		dpis := make([]int, 0, len(d.Resolutions))
		for _, res := range d.Resolutions {
			if !containsInt(dpis, res.X) {
				dpis = append(dpis, res.X)
			}
		}
		sort.Ints(dpis)
		parts := make([]string, 0, len(dpis))
		for _, dpi := range dpis {
			parts = append(parts, fmt.Sprint(dpi))
		}
		tokens = append(tokens, "RS"+strings.Join(parts, "-"))
	}

	tokens = append(tokens, "IFU0", "OFU0")
	return tokens
}

// ordinalToken builds an IS/MT/OB style token from the table ordinals of
// the given names, ascending, skipping names with no code. Returns "" when
// nothing mapped.
func ordinalToken(prefix string, names []string, code func(string) (int, bool)) string {
	var ordinals []int
	for _, name := range names {
		if c, ok := code(name); ok && !containsInt(ordinals, c) {
			ordinals = append(ordinals, c)
		}
	}
	if len(ordinals) == 0 {
		return ""
	}
	sort.Ints(ordinals)
	parts := make([]string, 0, len(ordinals))
	for _, c := range ordinals {
		parts = append(parts, fmt.Sprint(c))
	}
	return prefix + strings.Join(parts, "-")
}

// Attribute constructors

func kwAttr(name string, keywords []string) goipp.Attribute {
	attr := goipp.Attribute{Name: name}
	for _, kw := range keywords {
		attr.Values.Add(goipp.TagKeyword, goipp.String(kw))
	}
	return attr
}

func mimeAttr(name string, formats []string) goipp.Attribute {
	attr := goipp.Attribute{Name: name}
	for _, f := range formats {
		attr.Values.Add(goipp.TagMimeType, goipp.String(f))
	}
	return attr
}

func intAttr(name string, values []int) goipp.Attribute {
	attr := goipp.Attribute{Name: name}
	for _, v := range values {
		attr.Values.Add(goipp.TagInteger, goipp.Integer(v))
	}
	return attr
}

func enumAttr(name string, values []int) goipp.Attribute {
	attr := goipp.Attribute{Name: name}
	for _, v := range values {
		attr.Values.Add(goipp.TagEnum, goipp.Integer(v))
	}
	return attr
}

func resAttr(name string, resolutions []driver.Resolution) goipp.Attribute {
	attr := goipp.Attribute{Name: name}
	for _, res := range resolutions {
		attr.Values.Add(goipp.TagResolution, resolutionValue(res))
	}
	return attr
}

func resolutionValue(res driver.Resolution) goipp.Resolution {
	return goipp.Resolution{Xres: res.X, Yres: res.Y, Units: goipp.UnitsDpi}
}

func memberOf(list []string, value string) bool {
	for _, s := range list {
		if s == value {
			return true
		}
	}
	return false
}

func containsInt(list []int, value int) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
