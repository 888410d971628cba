package main

import (
	"fmt"
	"io"

	"vprinter/driver"
	"vprinter/logger"
	"vprinter/media"
)

// driverFor returns the capability record for a named built-in driver.
// These drivers discard submitted documents; they exist to expose fully
// populated IPP capability sets.
func driverFor(name string, log *logger.Logger) (driver.Data, error) {
	switch name {
	case "pwg-office":
		return officeDriver(log), nil
	case "pwg-label":
		return labelDriver(log), nil
	default:
		return driver.Data{}, fmt.Errorf("unknown driver %q", name)
	}
}

// officeDriver models a color office printer with duplex and two trays
func officeDriver(log *logger.Logger) driver.Data {
	return driver.Data{
		MakeAndModel:    "Virtual Office Printer",
		Format:          "image/pwg-raster",
		PPM:             30,
		PPMColor:        20,
		Kind:            driver.KindDocument,
		Features:        driver.FeaturePageOverrides,
		ColorModes:      driver.ColorModeAuto | driver.ColorModeColor | driver.ColorModeMonochrome,
		RasterTypes:     driver.RasterTypeSGray8 | driver.RasterTypeSRGB8,
		IdentifyActions: driver.IdentifyActionDisplay | driver.IdentifyActionSound,
		Sides:           driver.SideOneSided | driver.SideTwoSidedLongEdge | driver.SideTwoSidedShortEdge,
		Duplex:          driver.DuplexNormal,
		Media: []string{
			media.Letter,
			media.Legal,
			media.A4,
			media.A5,
			"custom_min_3x5in",
			"custom_max_8.5x14in",
		},
		Source:          []string{"tray-1", "tray-2", "manual"},
		Type:            []string{"stationery", "stationery-letterhead", "labels"},
		Resolutions:     []driver.Resolution{{X: 300, Y: 300}, {X: 600, Y: 600}},
		LeftRightMargin: 423,
		BottomTopMargin: 423,
		MediaDefault: driver.MediaCol{
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
		MediaReady: []driver.MediaCol{
			{
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
			{
				SizeName:     media.A4,
				Width:        21000,
				Length:       29700,
				BottomMargin: 423,
				LeftMargin:   423,
				RightMargin:  423,
				TopMargin:    423,
				Source:       "tray-2",
				Type:         "stationery",
			},
		},
		ColorModeDefault:  driver.ColorModeAuto,
		ResolutionDefault: driver.Resolution{X: 300, Y: 300},
		SidesDefault:      driver.SideOneSided,
		IdentifyDefault:   driver.IdentifyActionSound,
		Identify: func(action driver.IdentifyAction, message string) {
			log.Info("identify requested", "action", action.Keyword(), "message", message)
		},
		Status:   func() bool { return true },
		TestPage: func() string { return "" },
		RasterStart: func(res driver.Resolution, mode driver.ColorMode, rt driver.RasterType) error {
			log.Debug("raster job started", "xdpi", res.X, "ydpi", res.Y, "color_mode", mode.Keyword())
			return nil
		},
		RasterLine: func(line []byte) error { return nil },
		RasterEnd:  func() error { return nil },
	}
}

// labelDriver models a monochrome label printer: roll media, darkness and
// speed controls, a tear offset, no duplex
func labelDriver(log *logger.Logger) driver.Data {
	return driver.Data{
		MakeAndModel:    "Virtual Label Printer",
		Format:          "image/pwg-raster",
		PPM:             60,
		Kind:            driver.KindLabel | driver.KindRoll,
		ColorModes:      driver.ColorModeAuto | driver.ColorModeMonochrome,
		RasterTypes:     driver.RasterTypeBlack1 | driver.RasterTypeSGray8,
		IdentifyActions: driver.IdentifyActionFlash,
		MediaTracking:   driver.MediaTrackingGap | driver.MediaTrackingMark,
		Media: []string{
			"oe_address-label_1.25x3.5in",
			"oe_shipping-label_4x6in",
			"roll_min_1x1in",
			"roll_max_4x39.6in",
		},
		Source:               []string{"main-roll"},
		Type:                 []string{"labels", "continuous"},
		Resolutions:          []driver.Resolution{{X: 203, Y: 203}, {X: 300, Y: 300}},
		Darkness:             2,
		DarknessConfigured:   50,
		Speed:                [2]int{2540, 20320},
		SpeedDefault:         10160,
		TearOffset:           [2]int{0, 2540},
		TearOffsetConfigured: 0,
		MediaDefault: driver.MediaCol{
			SizeName: "oe_shipping-label_4x6in",
			Width:    10160,
			Length:   15240,
			Source:   "main-roll",
			Type:     "labels",
			Tracking: driver.MediaTrackingGap,
		},
		MediaReady: []driver.MediaCol{
			{
				SizeName: "oe_shipping-label_4x6in",
				Width:    10160,
				Length:   15240,
				Source:   "main-roll",
				Type:     "labels",
				Tracking: driver.MediaTrackingGap,
			},
		},
		ColorModeDefault:  driver.ColorModeMonochrome,
		ResolutionDefault: driver.Resolution{X: 203, Y: 203},
		IdentifyDefault:   driver.IdentifyActionFlash,
		Identify: func(action driver.IdentifyAction, message string) {
			log.Info("identify requested", "action", action.Keyword(), "message", message)
		},
		Status: func() bool { return true },
		RawPrint: func(format string, r io.Reader) error {
			n, err := io.Copy(io.Discard, r)
			if err != nil {
				return fmt.Errorf("failed to drain document: %w", err)
			}
			log.Debug("raw document discarded", "format", format, "bytes", n)
			return nil
		},
	}
}
