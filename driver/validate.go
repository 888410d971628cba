package driver

import (
	"regexp"

	"vprinter/media"
)

// Logger is the minimal logging surface the validators need. Satisfied by
// *logger.Logger.
type Logger interface {
	Error(msg string, context ...interface{})
	Warn(msg string, context ...interface{})
}

var vendorNameRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func mediaSize(name string) (media.Size, bool) {
	return media.Parse(name)
}

// ValidateDriver checks the structural sanity of a capability record. Every
// violation is logged and evaluation continues; the return value is false if
// any hard rule failed. Missing optional callbacks and icons are warnings
// only.
func ValidateDriver(log Logger, d *Data) bool {
	valid := true

	hasRaster := d.RasterStart != nil && d.RasterLine != nil && d.RasterEnd != nil
	hasRaw := d.RawPrint != nil && d.Format != ""
	if !hasRaster && !hasRaw {
		log.Error("driver provides neither raster lifecycle callbacks nor a raw print callback with a format")
		valid = false
	}

	if d.MakeAndModel == "" {
		log.Error("printer-make-and-model is empty")
		valid = false
	}

	if d.PPM <= 0 {
		log.Error("pages-per-minute is not positive", "ppm", d.PPM)
		valid = false
	}
	if d.PPMColor < 0 || d.PPMColor > d.PPM {
		log.Error("pages-per-minute-color is outside [0, ppm]", "ppm_color", d.PPMColor, "ppm", d.PPM)
		valid = false
	}

	if d.RasterTypes == 0 {
		log.Error("pwg-raster-document-type-supported has no raster types")
		valid = false
	}

	if len(d.Resolutions) == 0 {
		log.Error("printer-resolution-supported is empty")
		valid = false
	}
	if len(d.Resolutions) > MaxResolutions {
		log.Error("printer-resolution-supported exceeds maximum", "count", len(d.Resolutions), "max", MaxResolutions)
		valid = false
	}
	for _, res := range d.Resolutions {
		if res.X <= 0 || res.Y <= 0 {
			log.Error("printer-resolution-supported contains a non-positive component", "x", res.X, "y", res.Y)
			valid = false
		}
	}

	if d.LeftRightMargin < 0 {
		log.Error("media-left-margin-supported is negative", "margin", d.LeftRightMargin)
		valid = false
	}
	if d.BottomTopMargin < 0 {
		log.Error("media-bottom-margin-supported is negative", "margin", d.BottomTopMargin)
		valid = false
	}

	if len(d.Media) > MaxMedia {
		log.Error("media-supported exceeds maximum", "count", len(d.Media), "max", MaxMedia)
		valid = false
	}
	for _, name := range d.Media {
		if _, ok := mediaSize(name); !ok {
			log.Error("media-supported contains an unresolvable size name", "media", name)
			valid = false
		}
	}

	if len(d.Source) > MaxSource {
		log.Error("media-source-supported exceeds maximum", "count", len(d.Source), "max", MaxSource)
		valid = false
	}
	if len(d.Type) > MaxType {
		log.Error("media-type-supported exceeds maximum", "count", len(d.Type), "max", MaxType)
		valid = false
	}
	if len(d.Bin) > MaxBin {
		log.Error("output-bin-supported exceeds maximum", "count", len(d.Bin), "max", MaxBin)
		valid = false
	}
	if len(d.MediaReady) > MaxSource {
		log.Error("media-ready exceeds maximum", "count", len(d.MediaReady), "max", MaxSource)
		valid = false
	}

	if len(d.VendorNames) > MaxVendor {
		log.Error("vendor attribute list exceeds maximum", "count", len(d.VendorNames), "max", MaxVendor)
		valid = false
	}
	for _, name := range d.VendorNames {
		if !vendorNameRE.MatchString(name) {
			log.Error("vendor attribute name contains disallowed characters", "name", name)
			valid = false
		}
	}

	// Soft warnings: degraded functionality, not a rejection
	if d.Identify == nil {
		log.Warn("driver does not provide an identify callback")
	}
	if d.Status == nil {
		log.Warn("driver does not provide a status callback")
	}
	if d.TestPage == nil {
		log.Warn("driver does not provide a test page callback")
	}
	if len(d.Icons) == 0 {
		log.Warn("driver does not provide printer icons")
	}

	return valid
}

// ValidateDefaults checks that every default value is a member of its
// corresponding supported set. All rules are evaluated; the return value is
// false if any failed.
func ValidateDefaults(log Logger, d *Data, def *Defaults) bool {
	valid := true

	if def.IdentifyDefault&^d.IdentifyActions != 0 {
		log.Error("identify-actions-default is not a subset of identify-actions-supported",
			"default", def.IdentifyDefault, "supported", d.IdentifyActions)
		valid = false
	}

	if def.ColorModeDefault&^d.ColorModes != 0 {
		log.Error("print-color-mode-default is not in print-color-mode-supported",
			"default", def.ColorModeDefault.Keyword(), "supported", d.ColorModes.Keywords())
		valid = false
	}

	// Sides are only checked when the driver supports sides at all
	if d.Sides != 0 && def.SidesDefault&^d.Sides != 0 {
		log.Error("sides-default is not in sides-supported",
			"default", def.SidesDefault.Keyword(), "supported", d.Sides.Keywords())
		valid = false
	}

	// The default resolution must exactly match one of the supported pairs,
	// not merely fall inside a numeric range
	resOK := false
	for _, res := range d.Resolutions {
		if res == def.ResolutionDefault {
			resOK = true
			break
		}
	}
	if !resOK {
		log.Error("printer-resolution-default is not one of the supported resolution pairs",
			"x", def.ResolutionDefault.X, "y", def.ResolutionDefault.Y)
		valid = false
	}

	if !defaultMediaOK(d, def.MediaDefault) {
		log.Error("media-default is neither a supported media nor within the supported size range",
			"media", def.MediaDefault.SizeName,
			"width", def.MediaDefault.Width, "length", def.MediaDefault.Length)
		valid = false
	}

	if def.QualityDefault != 0 && (def.QualityDefault < 3 || def.QualityDefault > 5) {
		log.Error("print-quality-default is not a valid quality enum", "quality", def.QualityDefault)
		valid = false
	}

	if len(d.Bin) > 0 && (def.BinDefault < 0 || def.BinDefault >= len(d.Bin)) {
		log.Error("output-bin-default index is out of range", "index", def.BinDefault, "bins", len(d.Bin))
		valid = false
	}

	return valid
}

// defaultMediaOK admits an exactly-named supported media, or a size that fits
// the bounding rectangle of all supported sizes (continuous and roll media
// never name an exact entry).
func defaultMediaOK(d *Data, m MediaCol) bool {
	for _, name := range d.Media {
		if name == m.SizeName {
			return true
		}
	}

	minW, minL, maxW, maxL, ok := d.MediaBounds()
	if !ok {
		// No supported media to bound against; accept any resolvable size
		_, resolved := mediaSize(m.SizeName)
		return resolved
	}
	return m.Width >= minW && m.Width <= maxW && m.Length >= minL && m.Length <= maxL
}

// ValidateReady checks loaded-media state against the capability record.
// Empty entries are allowed (nothing loaded in that source). All rules are
// evaluated; the return value is false if any failed.
func ValidateReady(log Logger, d *Data, ready []MediaCol) bool {
	valid := true

	if len(ready) > MaxSource {
		log.Error("media-ready exceeds maximum", "count", len(ready), "max", MaxSource)
		valid = false
	}

	minW, minL, maxW, maxL, bounded := d.MediaBounds()

	for i, m := range ready {
		if m.IsZero() {
			continue
		}

		if _, ok := mediaSize(m.SizeName); !ok {
			log.Error("media-ready size name does not resolve", "index", i, "media", m.SizeName)
			valid = false
		} else if bounded && (m.Width < minW || m.Width > maxW || m.Length < minL || m.Length > maxL) {
			log.Error("media-ready size is outside the supported size range",
				"index", i, "media", m.SizeName, "width", m.Width, "length", m.Length)
			valid = false
		}

		if !memberOf(d.Source, m.Source) {
			log.Error("media-ready source is not in media-source-supported", "index", i, "source", m.Source)
			valid = false
		}
		if !memberOf(d.Type, m.Type) {
			log.Error("media-ready type is not in media-type-supported", "index", i, "type", m.Type)
			valid = false
		}

		margins := []struct {
			name  string
			value int
			min   int
		}{
			{"media-bottom-margin", m.BottomMargin, d.BottomTopMargin},
			{"media-top-margin", m.TopMargin, d.BottomTopMargin},
			{"media-left-margin", m.LeftMargin, d.LeftRightMargin},
			{"media-right-margin", m.RightMargin, d.LeftRightMargin},
		}
		for _, mg := range margins {
			if mg.value < mg.min && !(d.Borderless && mg.value == 0) {
				log.Error("media-ready margin is below the configured minimum",
					"index", i, "attribute", mg.name, "value", mg.value, "min", mg.min)
				valid = false
			}
		}
	}

	return valid
}

func memberOf(list []string, value string) bool {
	for _, s := range list {
		if s == value {
			return true
		}
	}
	return false
}
