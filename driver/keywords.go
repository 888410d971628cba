package driver

// The bit⇄keyword tables in this file are order-significant: an entry's
// position feeds the URF capability token encoding, so entries must never
// be reordered, only appended.

// placeholder is produced for any bit that has no keyword mapping; synthesis
// must not abort on unknown bits.
const placeholder = "unknown"

var colorModeTable = []struct {
	Bit     ColorMode
	Keyword string
}{
	{ColorModeAuto, "auto"},
	{ColorModeAutoMonochrome, "auto-monochrome"},
	{ColorModeColor, "color"},
	{ColorModeMonochrome, "monochrome"},
	{ColorModeProcessMonochrome, "process-monochrome"},
}

// Keywords expands a color mode set into keywords in table order
func (c ColorMode) Keywords() []string {
	var out []string
	for _, e := range colorModeTable {
		if c&e.Bit != 0 {
			out = append(out, e.Keyword)
			c &^= e.Bit
		}
	}
	if c != 0 {
		out = append(out, placeholder)
	}
	return out
}

// Keyword returns the keyword for a single color mode value
func (c ColorMode) Keyword() string {
	for _, e := range colorModeTable {
		if c == e.Bit {
			return e.Keyword
		}
	}
	return placeholder
}

// ColorModeFromKeyword maps a keyword back to its bit
func ColorModeFromKeyword(kw string) (ColorMode, bool) {
	for _, e := range colorModeTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

var rasterTypeTable = []struct {
	Bit     RasterType
	Keyword string
	URF     string
}{
	{RasterTypeAdobeRGB8, "adobe-rgb_8", "ADOBERGB24"},
	{RasterTypeAdobeRGB16, "adobe-rgb_16", "ADOBERGB48"},
	{RasterTypeBlack1, "black_1", "DEVW1"},
	{RasterTypeBlack8, "black_8", "DEVW8"},
	{RasterTypeBlack16, "black_16", "DEVW16"},
	{RasterTypeCMYK8, "cmyk_8", "DEVCMYK32"},
	{RasterTypeRGB8, "rgb_8", "DEVRGB24"},
	{RasterTypeRGB16, "rgb_16", "DEVRGB48"},
	{RasterTypeSGray8, "sgray_8", "W8"},
	{RasterTypeSRGB8, "srgb_8", "SRGB24"},
}

// Keywords expands a raster type set into PWG keywords in table order
func (r RasterType) Keywords() []string {
	var out []string
	for _, e := range rasterTypeTable {
		if r&e.Bit != 0 {
			out = append(out, e.Keyword)
			r &^= e.Bit
		}
	}
	if r != 0 {
		out = append(out, placeholder)
	}
	return out
}

// URFTokens expands a raster type set into URF color-space tokens in table order
func (r RasterType) URFTokens() []string {
	var out []string
	for _, e := range rasterTypeTable {
		if r&e.Bit != 0 && e.URF != "" {
			out = append(out, e.URF)
		}
	}
	return out
}

// RasterTypeFromKeyword maps a PWG keyword back to its bit
func RasterTypeFromKeyword(kw string) (RasterType, bool) {
	for _, e := range rasterTypeTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

var finishingTable = []struct {
	Bit     Finishing
	Enum    int // IPP finishings enum value
	Keyword string
}{
	{FinishingPunch, 5, "punch"},
	{FinishingStaple, 4, "staple"},
	{FinishingTrim, 11, "trim"},
}

// FinishingNoneEnum is the IPP enum for "no finishing", always supported
const FinishingNoneEnum = 3

// Keywords expands a finishing set into keywords in table order
func (f Finishing) Keywords() []string {
	var out []string
	for _, e := range finishingTable {
		if f&e.Bit != 0 {
			out = append(out, e.Keyword)
			f &^= e.Bit
		}
	}
	if f != 0 {
		out = append(out, placeholder)
	}
	return out
}

// Enums expands a finishing set into IPP enum values in table order
func (f Finishing) Enums() []int {
	var out []int
	for _, e := range finishingTable {
		if f&e.Bit != 0 {
			out = append(out, e.Enum)
		}
	}
	return out
}

// FinishingFromKeyword maps a keyword back to its bit
func FinishingFromKeyword(kw string) (Finishing, bool) {
	for _, e := range finishingTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

var identifyTable = []struct {
	Bit     IdentifyAction
	Keyword string
}{
	{IdentifyActionDisplay, "display"},
	{IdentifyActionFlash, "flash"},
	{IdentifyActionSound, "sound"},
	{IdentifyActionSpeak, "speak"},
}

// Keywords expands an identify action set into keywords in table order
func (a IdentifyAction) Keywords() []string {
	var out []string
	for _, e := range identifyTable {
		if a&e.Bit != 0 {
			out = append(out, e.Keyword)
			a &^= e.Bit
		}
	}
	if a != 0 {
		out = append(out, placeholder)
	}
	return out
}

// Keyword returns the keyword for a single identify action value
func (a IdentifyAction) Keyword() string {
	for _, e := range identifyTable {
		if a == e.Bit {
			return e.Keyword
		}
	}
	return placeholder
}

// IdentifyActionFromKeyword maps a keyword back to its bit
func IdentifyActionFromKeyword(kw string) (IdentifyAction, bool) {
	for _, e := range identifyTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

var trackingTable = []struct {
	Bit     MediaTracking
	Keyword string
}{
	{MediaTrackingContinuous, "continuous"},
	{MediaTrackingGap, "gap"},
	{MediaTrackingMark, "mark"},
	{MediaTrackingWeb, "web"},
}

// Keywords expands a tracking set into keywords in table order
func (t MediaTracking) Keywords() []string {
	var out []string
	for _, e := range trackingTable {
		if t&e.Bit != 0 {
			out = append(out, e.Keyword)
			t &^= e.Bit
		}
	}
	if t != 0 {
		out = append(out, placeholder)
	}
	return out
}

// Keyword returns the keyword for a single tracking value
func (t MediaTracking) Keyword() string {
	for _, e := range trackingTable {
		if t == e.Bit {
			return e.Keyword
		}
	}
	return placeholder
}

// MediaTrackingFromKeyword maps a keyword back to its bit
func MediaTrackingFromKeyword(kw string) (MediaTracking, bool) {
	for _, e := range trackingTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

var sideTable = []struct {
	Bit     Side
	Keyword string
}{
	{SideOneSided, "one-sided"},
	{SideTwoSidedLongEdge, "two-sided-long-edge"},
	{SideTwoSidedShortEdge, "two-sided-short-edge"},
}

// Keywords expands a sides set into keywords in table order
func (s Side) Keywords() []string {
	var out []string
	for _, e := range sideTable {
		if s&e.Bit != 0 {
			out = append(out, e.Keyword)
			s &^= e.Bit
		}
	}
	if s != 0 {
		out = append(out, placeholder)
	}
	return out
}

// Keyword returns the keyword for a single sides value
func (s Side) Keyword() string {
	for _, e := range sideTable {
		if s == e.Bit {
			return e.Keyword
		}
	}
	return placeholder
}

// SideFromKeyword maps a keyword back to its bit
func SideFromKeyword(kw string) (Side, bool) {
	for _, e := range sideTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

var kindTable = []struct {
	Bit     Kind
	Keyword string
}{
	{KindDisc, "disc"},
	{KindDocument, "document"},
	{KindEnvelope, "envelope"},
	{KindLabel, "label"},
	{KindLargeFormat, "large-format"},
	{KindPhoto, "photo"},
	{KindPostcard, "postcard"},
	{KindReceipt, "receipt"},
	{KindRoll, "roll"},
}

// Keywords expands a kind set into keywords in table order
func (k Kind) Keywords() []string {
	var out []string
	for _, e := range kindTable {
		if k&e.Bit != 0 {
			out = append(out, e.Keyword)
			k &^= e.Bit
		}
	}
	if k != 0 {
		out = append(out, placeholder)
	}
	return out
}

var featureTable = []struct {
	Bit     Feature
	Keyword string
}{
	{FeatureDocumentObject, "document-object"},
	{FeatureFaxout, "faxout"},
	{FeatureInfrastructurePrinter, "infrastructure-printer"},
	{FeatureJobRelease, "job-release"},
	{FeaturePageOverrides, "page-overrides"},
	{FeatureProofPrint, "proof-print"},
}

// Keywords expands a feature set into keywords in table order
func (f Feature) Keywords() []string {
	var out []string
	for _, e := range featureTable {
		if f&e.Bit != 0 {
			out = append(out, e.Keyword)
			f &^= e.Bit
		}
	}
	if f != 0 {
		out = append(out, placeholder)
	}
	return out
}

// FeatureFromKeyword maps a keyword back to its bit
func FeatureFromKeyword(kw string) (Feature, bool) {
	for _, e := range featureTable {
		if e.Keyword == kw {
			return e.Bit, true
		}
	}
	return 0, false
}

// SheetBack returns the pwg-raster-document-sheet-back keyword for a duplex mode
func (d Duplex) SheetBack() string {
	switch d {
	case DuplexNormal:
		return "normal"
	case DuplexFlipped:
		return "flipped"
	case DuplexRotated:
		return "rotated"
	case DuplexManualTumble:
		return "manual-tumble"
	default:
		return ""
	}
}

// URFToken returns the URF DM token for a duplex mode, or "" for none
func (d Duplex) URFToken() string {
	switch d {
	case DuplexNormal:
		return "DM1"
	case DuplexFlipped:
		return "DM2"
	case DuplexRotated:
		return "DM3"
	case DuplexManualTumble:
		return "DM4"
	default:
		return ""
	}
}

// urfSourceTable assigns URF input-slot codes by position (code = index + 1).
// "auto" deliberately has no code and is skipped in IS tokens.
var urfSourceTable = []string{
	"main",
	"alternate",
	"large-capacity",
	"manual",
	"envelope",
	"disc",
	"photo",
	"hagaki",
	"main-roll",
	"alternate-roll",
	"top",
	"middle",
	"bottom",
	"side",
	"left",
	"right",
	"center",
	"rear",
	"by-pass-tray",
	"tray-1",
	"tray-2",
	"tray-3",
	"tray-4",
	"tray-5",
	"tray-6",
	"tray-7",
	"tray-8",
	"tray-9",
	"tray-10",
}

// URFSourceCode returns the position-significant URF code for a media source
func URFSourceCode(name string) (int, bool) {
	for i, s := range urfSourceTable {
		if s == name {
			return i + 1, true
		}
	}
	return 0, false
}

// urfTypeTable assigns URF media-type codes by position (code = index + 1)
var urfTypeTable = []string{
	"auto",
	"stationery",
	"transparency",
	"envelope",
	"cardstock",
	"labels",
	"stationery-letterhead",
	"disc",
	"photographic-matte",
	"photographic-satin",
	"photographic-semi-gloss",
	"photographic-glossy",
	"photographic-high-gloss",
	"other",
}

// URFTypeCode returns the position-significant URF code for a media type
func URFTypeCode(name string) (int, bool) {
	for i, s := range urfTypeTable {
		if s == name {
			return i + 1, true
		}
	}
	return 0, false
}

// urfBinTable assigns URF output-bin codes by position (code = index + 1)
var urfBinTable = []string{
	"center",
	"rear",
	"face-down",
	"face-up",
	"top",
	"middle",
	"bottom",
	"side",
	"left",
	"right",
	"stacker",
	"mailbox-1",
	"mailbox-2",
	"mailbox-3",
	"mailbox-4",
	"mailbox-5",
}

// URFBinCode returns the position-significant URF code for an output bin
func URFBinCode(name string) (int, bool) {
	for i, s := range urfBinTable {
		if s == name {
			return i + 1, true
		}
	}
	return 0, false
}
