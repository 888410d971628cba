package driver

import (
	"fmt"
	"strings"
	"testing"

	"vprinter/media"
)

// captureLogger records messages so tests can assert on what was logged
type captureLogger struct {
	errors []string
	warns  []string
}

func (c *captureLogger) Error(msg string, context ...interface{}) {
	c.errors = append(c.errors, msg+fmt.Sprint(context...))
}

func (c *captureLogger) Warn(msg string, context ...interface{}) {
	c.warns = append(c.warns, msg+fmt.Sprint(context...))
}

func (c *captureLogger) errorsContain(substr string) bool {
	for _, msg := range c.errors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func validData() Data {
	return Data{
		MakeAndModel:    "Example Test Printer",
		Format:          "image/pwg-raster",
		PPM:             30,
		PPMColor:        10,
		Kind:            KindDocument,
		ColorModes:      ColorModeAuto | ColorModeColor | ColorModeMonochrome,
		RasterTypes:     RasterTypeSGray8 | RasterTypeSRGB8,
		IdentifyActions: IdentifyActionDisplay | IdentifyActionSound,
		Sides:           SideOneSided | SideTwoSidedLongEdge | SideTwoSidedShortEdge,
		Duplex:          DuplexNormal,
		Media:           []string{media.Letter, media.A4, media.Legal},
		Source:          []string{"tray-1", "manual"},
		Type:            []string{"stationery", "labels"},
		Resolutions:     []Resolution{{300, 300}, {600, 600}},
		LeftRightMargin: 423,
		BottomTopMargin: 423,
		MediaDefault: MediaCol{
			SizeName:     media.Letter,
			Width:        21590,
			Length:       27940,
			BottomMargin: 423,
			LeftMargin:   423,
			RightMargin:  423,
			TopMargin:    423,
			Source:       "tray-1",
			Type:         "stationery",
		},
		ColorModeDefault:  ColorModeAuto,
		ResolutionDefault: Resolution{300, 300},
		SidesDefault:      SideOneSided,
		IdentifyDefault:   IdentifyActionDisplay,
		Identify:          func(IdentifyAction, string) {},
		Status:            func() bool { return true },
		TestPage:          func() string { return "" },
		RasterStart:       func(Resolution, ColorMode, RasterType) error { return nil },
		RasterLine:        func([]byte) error { return nil },
		RasterEnd:         func() error { return nil },
	}
}

func TestValidateDriverOK(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	if !ValidateDriver(log, &d) {
		t.Fatalf("valid driver rejected, errors: %v", log.errors)
	}
	if len(log.errors) != 0 {
		t.Errorf("valid driver logged errors: %v", log.errors)
	}
}

func TestValidateDriverFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Data)
		message string
	}{
		{"empty make and model", func(d *Data) { d.MakeAndModel = "" }, "printer-make-and-model"},
		{"zero ppm", func(d *Data) { d.PPM = 0 }, "pages-per-minute"},
		{"color ppm above mono", func(d *Data) { d.PPMColor = d.PPM + 1 }, "pages-per-minute-color"},
		{"no raster types", func(d *Data) { d.RasterTypes = 0 }, "pwg-raster-document-type-supported"},
		{"no resolutions", func(d *Data) { d.Resolutions = nil }, "printer-resolution-supported"},
		{"non-positive resolution", func(d *Data) { d.Resolutions = []Resolution{{0, 300}} }, "non-positive"},
		{"negative margin", func(d *Data) { d.BottomTopMargin = -1 }, "media-bottom-margin-supported"},
		{"bad media name", func(d *Data) { d.Media = append(d.Media, "letterish") }, "unresolvable"},
		{"bad vendor name", func(d *Data) { d.VendorNames = []string{"no spaces allowed"} }, "disallowed characters"},
		{
			"no callbacks",
			func(d *Data) {
				d.RasterStart, d.RasterLine, d.RasterEnd = nil, nil, nil
				d.RawPrint = nil
			},
			"neither raster lifecycle callbacks",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			log := &captureLogger{}
			d := validData()
			tc.mutate(&d)
			if ValidateDriver(log, &d) {
				t.Fatal("expected validation failure")
			}
			if !log.errorsContain(tc.message) {
				t.Errorf("expected an error mentioning %q, got %v", tc.message, log.errors)
			}
		})
	}
}

func TestValidateDriverDoesNotShortCircuit(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	d.MakeAndModel = ""
	d.PPM = 0
	d.RasterTypes = 0

	if ValidateDriver(log, &d) {
		t.Fatal("expected validation failure")
	}
	if len(log.errors) < 3 {
		t.Errorf("expected all violations logged, got %d: %v", len(log.errors), log.errors)
	}
}

func TestValidateDriverWarnings(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	d.Identify = nil
	d.Status = nil
	d.TestPage = nil

	if !ValidateDriver(log, &d) {
		t.Fatalf("missing optional callbacks must not fail validation, errors: %v", log.errors)
	}
	if len(log.warns) < 3 {
		t.Errorf("expected warnings for missing optional callbacks, got %v", log.warns)
	}
}

func TestValidateDefaultsColorMode(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	def := DefaultsOf(&d)
	def.ColorModeDefault = ColorModeProcessMonochrome // not in supported set

	if ValidateDefaults(log, &d, &def) {
		t.Fatal("expected validation failure")
	}
	if !log.errorsContain("print-color-mode-default") {
		t.Errorf("expected a message naming print-color-mode-default, got %v", log.errors)
	}
}

func TestValidateDefaultsResolutionExactPair(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	def := DefaultsOf(&d)
	// 300x600 falls between the supported pairs numerically but matches
	// neither exactly
	def.ResolutionDefault = Resolution{300, 600}

	if ValidateDefaults(log, &d, &def) {
		t.Fatal("expected validation failure")
	}
	if !log.errorsContain("printer-resolution-default") {
		t.Errorf("expected a printer-resolution-default error, got %v", log.errors)
	}
}

func TestValidateDefaultsSidesSkippedWhenUnsupported(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	d.Sides = 0
	def := DefaultsOf(&d)
	def.SidesDefault = SideTwoSidedLongEdge

	if !ValidateDefaults(log, &d, &def) {
		t.Errorf("sides-default must not be checked when sides are unsupported, errors: %v", log.errors)
	}
}

func TestValidateDefaultsMediaBoundingBox(t *testing.T) {
	t.Parallel()

	log := &captureLogger{}
	d := validData()
	def := DefaultsOf(&d)

	// A custom size inside the bounding box of letter/a4/legal is accepted
	// even though it names no supported entry
	def.MediaDefault = MediaCol{SizeName: "custom_9x12in_9x12in", Width: 21200, Length: 30000}
	if !ValidateDefaults(log, &d, &def) {
		t.Errorf("in-bounds custom media default rejected, errors: %v", log.errors)
	}

	// A size outside the bounding box is rejected
	log = &captureLogger{}
	def.MediaDefault = MediaCol{SizeName: "custom_huge_20x30in", Width: 50800, Length: 76200}
	if ValidateDefaults(log, &d, &def) {
		t.Error("out-of-bounds media default accepted")
	}
	if !log.errorsContain("media-default") {
		t.Errorf("expected a media-default error, got %v", log.errors)
	}
}

func TestValidateReady(t *testing.T) {
	t.Parallel()

	d := validData()
	good := MediaCol{
		SizeName:     media.A4,
		Width:        21000,
		Length:       29700,
		BottomMargin: 423,
		LeftMargin:   423,
		RightMargin:  423,
		TopMargin:    423,
		Source:       "tray-1",
		Type:         "stationery",
	}

	log := &captureLogger{}
	if !ValidateReady(log, &d, []MediaCol{good, {}}) {
		t.Fatalf("valid ready media rejected, errors: %v", log.errors)
	}

	// Unknown source fails
	bad := good
	bad.Source = "tray-9"
	log = &captureLogger{}
	if ValidateReady(log, &d, []MediaCol{bad}) {
		t.Error("ready media with unknown source accepted")
	}
	if !log.errorsContain("media-ready source") {
		t.Errorf("expected a source error, got %v", log.errors)
	}

	// Unknown type fails
	bad = good
	bad.Type = "vellum"
	log = &captureLogger{}
	if ValidateReady(log, &d, []MediaCol{bad}) {
		t.Error("ready media with unknown type accepted")
	}

	// Margin below minimum fails without borderless
	bad = good
	bad.TopMargin = 0
	log = &captureLogger{}
	if ValidateReady(log, &d, []MediaCol{bad}) {
		t.Error("ready media with sub-minimum margin accepted")
	}

	// Zero margins are fine when borderless is enabled
	d.Borderless = true
	log = &captureLogger{}
	if !ValidateReady(log, &d, []MediaCol{bad}) {
		t.Errorf("borderless zero margin rejected, errors: %v", log.errors)
	}
}
