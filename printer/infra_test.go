package printer

import (
	"reflect"
	"testing"

	"github.com/OpenPrinting/goipp"

	"vprinter/driver"
	"vprinter/media"
)

func ppmAttr(ppm int) goipp.Attribute {
	return goipp.MakeAttribute("pages-per-minute", goipp.TagInteger, goipp.Integer(ppm))
}

func TestAggregateEmptySeedsDefaults(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatalf("CreateInfraPrinter failed: %v", err)
	}

	d := p.Driver()
	if want := []string{media.Letter, media.A4}; !reflect.DeepEqual(d.Media, want) {
		t.Errorf("seeded media = %v, want %v", d.Media, want)
	}
	if want := []string{"auto"}; !reflect.DeepEqual(d.Source, want) {
		t.Errorf("seeded source = %v, want %v", d.Source, want)
	}
	if want := []string{"stationery"}; !reflect.DeepEqual(d.Type, want) {
		t.Errorf("seeded type = %v, want %v", d.Type, want)
	}
	if want := []driver.Resolution{{X: 300, Y: 300}}; !reflect.DeepEqual(d.Resolutions, want) {
		t.Errorf("seeded resolutions = %v, want %v", d.Resolutions, want)
	}
	if d.MakeAndModel != "Infrastructure Printer" {
		t.Errorf("make-and-model = %q, want fallback name", d.MakeAndModel)
	}
	if d.Features&driver.FeatureInfrastructurePrinter == 0 {
		t.Error("infrastructure-printer feature bit not set")
	}
	if d.PPM != 1 {
		t.Errorf("PPM = %d, want floor of 1", d.PPM)
	}
	if len(d.MediaReady) != 1 || d.MediaReady[0].Source != "auto" {
		t.Errorf("ready media = %+v, want one entry for the auto source", d.MediaReady)
	}
}

func TestAggregateUnionsFinishings(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		kwAttr("finishing-template-supported", []string{"punch"}),
		ppmAttr(20),
	})
	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		kwAttr("finishing-template-supported", []string{"staple"}),
		ppmAttr(20),
	})

	if err := p.Aggregate(); err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	d := p.Driver()
	if d.Finishings != driver.FinishingPunch|driver.FinishingStaple {
		t.Errorf("finishings = %v, want punch|staple", d.Finishings)
	}

	templates, _ := findAttr(p.Attributes(), "finishing-template-supported")
	if got := stringValues(templates); !reflect.DeepEqual(got, []string{"none", "punch", "staple"}) {
		t.Errorf("finishing-template-supported = %v, want [none punch staple]", got)
	}
}

func TestAggregateMargins(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	// Device A offers borderless (zero) and 635; device B only 1270. The
	// merged margin is the furthest from zero, and borderless is lost
	// because B never offers it.
	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		intAttr("media-bottom-margin-supported", []int{0, 635}),
		intAttr("media-left-margin-supported", []int{0, 635}),
		ppmAttr(10),
	})
	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		intAttr("media-bottom-margin-supported", []int{1270}),
		intAttr("media-left-margin-supported", []int{1270}),
		ppmAttr(10),
	})

	if err := p.Aggregate(); err != nil {
		t.Fatal(err)
	}

	d := p.Driver()
	if d.BottomTopMargin != 1270 {
		t.Errorf("bottom/top margin = %d, want 1270", d.BottomTopMargin)
	}
	if d.LeftRightMargin != 1270 {
		t.Errorf("left/right margin = %d, want 1270", d.LeftRightMargin)
	}
	if d.Borderless {
		t.Error("borderless must not survive a device that lacks a zero margin")
	}
}

func TestAggregateBorderlessSurvivesUnanimity(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
			intAttr("media-bottom-margin-supported", []int{0, 423}),
			intAttr("media-left-margin-supported", []int{0, 423}),
			ppmAttr(10),
		})
	}

	if err := p.Aggregate(); err != nil {
		t.Fatal(err)
	}

	d := p.Driver()
	if !d.Borderless {
		t.Error("borderless must survive when every device offers zero margins")
	}
	if d.BottomTopMargin != 423 {
		t.Errorf("bottom/top margin = %d, want 423", d.BottomTopMargin)
	}
}

func TestAggregatePPMCeilingAverage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ppms []int
		want int
	}{
		{[]int{20, 30}, 25},
		{[]int{21, 30}, 26},
		{[]int{7}, 7},
	}

	for _, tc := range cases {
		sys := testSystem()
		p, err := sys.CreateInfraPrinter("infra")
		if err != nil {
			t.Fatal(err)
		}
		for _, ppm := range tc.ppms {
			p.AddOutputDevice("").SetSnapshot(goipp.Attributes{ppmAttr(ppm)})
		}
		if err := p.Aggregate(); err != nil {
			t.Fatal(err)
		}
		if got := p.Driver().PPM; got != tc.want {
			t.Errorf("PPM for %v = %d, want %d", tc.ppms, got, tc.want)
		}
	}
}

func TestAggregateDeduplicatesLists(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	snap := goipp.Attributes{
		kwAttr("media-supported", []string{media.Letter, media.A4}),
		kwAttr("media-source-supported", []string{"tray-1"}),
		kwAttr("media-type-supported", []string{"stationery", "labels"}),
		resAttr("printer-resolution-supported", []driver.Resolution{{X: 600, Y: 600}}),
		ppmAttr(15),
	}
	p.AddOutputDevice("").SetSnapshot(snap)
	p.AddOutputDevice("").SetSnapshot(snap)

	if err := p.Aggregate(); err != nil {
		t.Fatal(err)
	}

	d := p.Driver()
	if want := []string{media.Letter, media.A4}; !reflect.DeepEqual(d.Media, want) {
		t.Errorf("media = %v, want de-duplicated %v", d.Media, want)
	}
	if want := []string{"tray-1"}; !reflect.DeepEqual(d.Source, want) {
		t.Errorf("source = %v, want %v", d.Source, want)
	}
	if want := []driver.Resolution{{X: 600, Y: 600}}; !reflect.DeepEqual(d.Resolutions, want) {
		t.Errorf("resolutions = %v, want %v", d.Resolutions, want)
	}

	// One synthesized ready-media entry per source
	if len(d.MediaReady) != len(d.Source) {
		t.Errorf("ready media entries = %d, want %d", len(d.MediaReady), len(d.Source))
	}
	if d.MediaReady[0].SizeName != media.Letter || d.MediaReady[0].Source != "tray-1" {
		t.Errorf("ready media = %+v, want letter in tray-1", d.MediaReady[0])
	}
}

func TestAggregateMakeAndModelFromFirstDevice(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		goipp.MakeAttribute("printer-make-and-model", goipp.TagText, goipp.String("Acme Duplomat 9000")),
		ppmAttr(12),
	})
	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		goipp.MakeAttribute("printer-make-and-model", goipp.TagText, goipp.String("Other Model")),
		ppmAttr(12),
	})

	if err := p.Aggregate(); err != nil {
		t.Fatal(err)
	}
	if got := p.Driver().MakeAndModel; got != "Acme Duplomat 9000" {
		t.Errorf("make-and-model = %q, want the first device's", got)
	}
}

func TestRemoveOutputDevice(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	od := p.AddOutputDevice("dev-1")
	p.AddOutputDevice("dev-2")
	if len(p.OutputDevices()) != 2 {
		t.Fatal("expected two registered devices")
	}

	if !p.RemoveOutputDevice(od.UUID()) {
		t.Error("RemoveOutputDevice returned false for a registered device")
	}
	if p.RemoveOutputDevice("dev-1") {
		t.Error("RemoveOutputDevice returned true for an already-removed device")
	}
	devices := p.OutputDevices()
	if len(devices) != 1 || devices[0].UUID() != "dev-2" {
		t.Errorf("remaining devices = %v, want just dev-2", devices)
	}
}

func TestAggregateSidesAndColor(t *testing.T) {
	t.Parallel()

	sys := testSystem()
	p, err := sys.CreateInfraPrinter("infra")
	if err != nil {
		t.Fatal(err)
	}

	p.AddOutputDevice("").SetSnapshot(goipp.Attributes{
		kwAttr("sides-supported", []string{"one-sided", "two-sided-long-edge"}),
		kwAttr("print-color-mode-supported", []string{"color", "monochrome"}),
		kwAttr("pwg-raster-document-type-supported", []string{"srgb_8", "sgray_8"}),
		ppmAttr(18),
	})

	if err := p.Aggregate(); err != nil {
		t.Fatal(err)
	}

	d := p.Driver()
	if d.Sides&driver.SideTwoSidedLongEdge == 0 {
		t.Error("two-sided-long-edge lost in merge")
	}
	if d.Duplex == driver.DuplexNone {
		t.Error("duplex style not inferred from two-sided support")
	}
	// Auto selection is always offered so the merged defaults validate
	if d.ColorModes&driver.ColorModeAuto == 0 {
		t.Error("auto color mode not added to merged record")
	}
	if d.ColorModeDefault != driver.ColorModeAuto {
		t.Errorf("color default = %v, want auto", d.ColorModeDefault)
	}
}
