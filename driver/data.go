// Package driver defines the printer capability record: everything a driver
// reports about what its device can do, the chosen defaults, and the media
// currently loaded. The record is installed into a printer as one value and
// read back by value; it never contains shared mutable state except the
// optional Extension, whose ownership transfers with the record.
package driver

import "io"

// Bounded list maxima. Lists are modeled as slices but validated against
// these limits so a record can always round-trip to fixed-size protocol
// structures.
const (
	MaxMedia       = 256
	MaxSource      = 16
	MaxType        = 32
	MaxBin         = 16
	MaxResolutions = 4
	MaxVendor      = 32
	MaxIcons       = 3
)

// ColorMode is a print-color-mode capability bit. A "-supported" field holds
// an OR of bits; a "-default" field holds exactly one bit.
type ColorMode uint32

const (
	ColorModeAuto ColorMode = 1 << iota
	ColorModeAutoMonochrome
	ColorModeColor
	ColorModeMonochrome
	ColorModeProcessMonochrome
)

// RasterType is a pwg-raster-document-type capability bit
type RasterType uint32

const (
	RasterTypeAdobeRGB8 RasterType = 1 << iota
	RasterTypeAdobeRGB16
	RasterTypeBlack1
	RasterTypeBlack8
	RasterTypeBlack16
	RasterTypeCMYK8
	RasterTypeRGB8
	RasterTypeRGB16
	RasterTypeSGray8
	RasterTypeSRGB8
)

// Finishing is a finishings capability bit
type Finishing uint32

const (
	FinishingPunch Finishing = 1 << iota
	FinishingStaple
	FinishingTrim
)

// IdentifyAction is an identify-actions capability bit
type IdentifyAction uint32

const (
	IdentifyActionDisplay IdentifyAction = 1 << iota
	IdentifyActionFlash
	IdentifyActionSound
	IdentifyActionSpeak
)

// MediaTracking is a media-tracking capability bit (label printers)
type MediaTracking uint32

const (
	MediaTrackingContinuous MediaTracking = 1 << iota
	MediaTrackingGap
	MediaTrackingMark
	MediaTrackingWeb
)

// Side is a sides capability bit
type Side uint32

const (
	SideOneSided Side = 1 << iota
	SideTwoSidedLongEdge
	SideTwoSidedShortEdge
)

// Duplex selects how the device flips the back side of two-sided output
type Duplex int

const (
	DuplexNone Duplex = iota
	DuplexNormal
	DuplexFlipped
	DuplexRotated
	DuplexManualTumble
)

// Kind is a printer-kind capability bit
type Kind uint32

const (
	KindDisc Kind = 1 << iota
	KindDocument
	KindEnvelope
	KindLabel
	KindLargeFormat
	KindPhoto
	KindPostcard
	KindReceipt
	KindRoll
)

// Feature is an ipp-features capability bit
type Feature uint32

const (
	FeatureDocumentObject Feature = 1 << iota
	FeatureFaxout
	FeatureInfrastructurePrinter
	FeatureJobRelease
	FeaturePageOverrides
	FeatureProofPrint
)

// Resolution is one supported resolution pair in dots per inch
type Resolution struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MediaCol describes one media configuration: a size plus the margins,
// source, type, tracking, and offsets that go with it. Dimensions and
// margins are hundredths of millimetres.
type MediaCol struct {
	SizeName     string        `json:"size_name"`
	Width        int           `json:"width"`
	Length       int           `json:"length"`
	BottomMargin int           `json:"bottom_margin"`
	LeftMargin   int           `json:"left_margin"`
	RightMargin  int           `json:"right_margin"`
	TopMargin    int           `json:"top_margin"`
	LeftOffset   int           `json:"left_offset"`
	TopOffset    int           `json:"top_offset"`
	Source       string        `json:"source"`
	Type         string        `json:"type"`
	Tracking     MediaTracking `json:"tracking"`
}

// IsZero reports whether the entry is empty (nothing loaded in that source)
func (m MediaCol) IsZero() bool {
	return m.SizeName == "" && m.Width == 0 && m.Length == 0
}

// Extension is opaque per-driver state carried by a record. It is closed
// when the record that owns it is replaced or destroyed.
type Extension interface {
	Close()
}

// Data is the full capability record for one printer
type Data struct {
	// Identity
	MakeAndModel string
	Format       string // native document format (MIME type)
	PPM          int    // pages per minute, monochrome
	PPMColor     int    // pages per minute, color; 0 when not a color device
	DeviceID     string // IEEE-1284 device ID; derived during synthesis when empty
	Kind         Kind

	// Capability sets
	ColorModes      ColorMode
	RasterTypes     RasterType
	Finishings      Finishing
	IdentifyActions IdentifyAction
	MediaTracking   MediaTracking
	Sides           Side
	Duplex          Duplex
	Features        Feature
	VendorFeatures  []string // vendor ipp-features keywords

	// Capability lists, bounded by the Max* constants
	Media       []string // PWG size names, including custom/roll min/max pseudo-entries
	Source      []string
	Type        []string
	Bin         []string
	Resolutions []Resolution
	VendorNames []string // vendor attribute names, [A-Za-z0-9_-]+

	// Numeric and range capabilities (hundredths of millimetres unless noted)
	Borderless      bool
	LeftRightMargin int
	BottomTopMargin int
	TearOffset      [2]int // supported label tear offset range
	Speed           [2]int // supported print-speed range, hundredths of mm/s
	Darkness        int    // number of darkness steps; 0 when unsupported
	LeftOffsets     [2]int // supported media-left-offset range
	TopOffsets      [2]int // supported media-top-offset range

	// Output handling
	OutputFaceUp bool // pages are delivered face up when no bins are defined

	// Defaults
	MediaDefault         MediaCol
	ColorModeDefault     ColorMode
	ResolutionDefault    Resolution
	SidesDefault         Side
	IdentifyDefault      IdentifyAction
	QualityDefault       int // IPP print-quality enum: 3=draft, 4=normal, 5=high
	ContentDefault       string
	BinDefault           int // index into Bin
	DarknessConfigured   int
	TearOffsetConfigured int
	SpeedDefault         int

	// Ready (loaded) media, one entry per source, indexed like Source
	MediaReady []MediaCol

	// Web resources for printer-icons; presence only affects a validation
	// warning here, serving them is the web layer's concern
	Icons []string

	// Opaque per-driver state with cleanup
	Extension Extension

	// Callbacks. The raster lifecycle trio is required unless RawPrint and
	// Format are both set. Identify, Status, and TestPage are optional.
	Identify    func(actions IdentifyAction, message string)
	Status      func() bool
	TestPage    func() string // returns the path of a generated test page
	RawPrint    func(format string, r io.Reader) error
	RasterStart func(res Resolution, mode ColorMode, rt RasterType) error
	RasterLine  func(line []byte) error
	RasterEnd   func() error
}

// Clone returns a deep copy of the record. The Extension pointer is shared,
// not copied; ownership rules for extensions are handled by the install path.
func (d *Data) Clone() Data {
	out := *d

	out.VendorFeatures = append([]string(nil), d.VendorFeatures...)
	out.Media = append([]string(nil), d.Media...)
	out.Source = append([]string(nil), d.Source...)
	out.Type = append([]string(nil), d.Type...)
	out.Bin = append([]string(nil), d.Bin...)
	out.Resolutions = append([]Resolution(nil), d.Resolutions...)
	out.VendorNames = append([]string(nil), d.VendorNames...)
	out.MediaReady = append([]MediaCol(nil), d.MediaReady...)
	out.Icons = append([]string(nil), d.Icons...)

	return out
}

// Defaults is the settable subset of a record, used by the incremental
// install path and by persistence.
type Defaults struct {
	MediaDefault         MediaCol       `json:"media_default"`
	ColorModeDefault     ColorMode      `json:"color_mode_default"`
	ResolutionDefault    Resolution     `json:"resolution_default"`
	SidesDefault         Side           `json:"sides_default"`
	IdentifyDefault      IdentifyAction `json:"identify_default"`
	QualityDefault       int            `json:"quality_default"`
	ContentDefault       string         `json:"content_default"`
	BinDefault           int            `json:"bin_default"`
	DarknessConfigured   int            `json:"darkness_configured"`
	SpeedDefault         int            `json:"speed_default"`
	TearOffsetConfigured int            `json:"tear_offset_configured"`
}

// DefaultsOf extracts the settable defaults from a record
func DefaultsOf(d *Data) Defaults {
	return Defaults{
		MediaDefault:         d.MediaDefault,
		ColorModeDefault:     d.ColorModeDefault,
		ResolutionDefault:    d.ResolutionDefault,
		SidesDefault:         d.SidesDefault,
		IdentifyDefault:      d.IdentifyDefault,
		QualityDefault:       d.QualityDefault,
		ContentDefault:       d.ContentDefault,
		BinDefault:           d.BinDefault,
		DarknessConfigured:   d.DarknessConfigured,
		SpeedDefault:         d.SpeedDefault,
		TearOffsetConfigured: d.TearOffsetConfigured,
	}
}

// Apply writes the defaults into a record
func (def Defaults) Apply(d *Data) {
	d.MediaDefault = def.MediaDefault
	d.ColorModeDefault = def.ColorModeDefault
	d.ResolutionDefault = def.ResolutionDefault
	d.SidesDefault = def.SidesDefault
	d.IdentifyDefault = def.IdentifyDefault
	d.QualityDefault = def.QualityDefault
	d.ContentDefault = def.ContentDefault
	d.BinDefault = def.BinDefault
	d.DarknessConfigured = def.DarknessConfigured
	d.SpeedDefault = def.SpeedDefault
	d.TearOffsetConfigured = def.TearOffsetConfigured
}

// MediaBounds returns the bounding rectangle over every supported media
// size, used to admit continuous/roll sizes that do not name an exact
// supported entry. ok is false when no media entry resolves.
func (d *Data) MediaBounds() (minW, minL, maxW, maxL int, ok bool) {
	for _, name := range d.Media {
		size, parsed := mediaSize(name)
		if !parsed {
			continue
		}
		if !ok {
			minW, maxW = size.Width, size.Width
			minL, maxL = size.Length, size.Length
			ok = true
			continue
		}
		if size.Width < minW {
			minW = size.Width
		}
		if size.Width > maxW {
			maxW = size.Width
		}
		if size.Length < minL {
			minL = size.Length
		}
		if size.Length > maxL {
			maxL = size.Length
		}
	}
	return
}
