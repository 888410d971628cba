package printer

import (
	"io"
	"math"
	"sync"

	"github.com/OpenPrinting/goipp"
	"github.com/google/uuid"

	"vprinter/driver"
	"vprinter/media"
)

// OutputDevice is one backing physical device behind an infrastructure
// printer. The snapshot is the most recent raw IPP attribute set fetched
// from that device by the proxy layer, read under the device's own lock.
type OutputDevice struct {
	uuid string

	mu       sync.RWMutex
	snapshot goipp.Attributes
}

// UUID returns the device UUID
func (od *OutputDevice) UUID() string {
	return od.uuid
}

// SetSnapshot replaces the device's cached attribute snapshot
func (od *OutputDevice) SetSnapshot(attrs goipp.Attributes) {
	attrs = copyAttributes(attrs)
	od.mu.Lock()
	od.snapshot = attrs
	od.mu.Unlock()
}

// Snapshot returns a copy of the cached attribute snapshot
func (od *OutputDevice) Snapshot() goipp.Attributes {
	od.mu.RLock()
	defer od.mu.RUnlock()
	return copyAttributes(od.snapshot)
}

// AddOutputDevice registers a backing device on an infrastructure printer.
// An empty deviceUUID generates one.
func (p *Printer) AddOutputDevice(deviceUUID string) *OutputDevice {
	if deviceUUID == "" {
		deviceUUID = uuid.NewString()
	}
	od := &OutputDevice{uuid: deviceUUID}

	p.devMu.Lock()
	p.devices = append(p.devices, od)
	p.devMu.Unlock()

	p.system.Log.Info("registered output device", "printer", p.name, "device", deviceUUID)
	return od
}

// OutputDevices returns the registered devices
func (p *Printer) OutputDevices() []*OutputDevice {
	p.devMu.RLock()
	defer p.devMu.RUnlock()
	return append([]*OutputDevice(nil), p.devices...)
}

// RemoveOutputDevice unregisters a backing device
func (p *Printer) RemoveOutputDevice(deviceUUID string) bool {
	p.devMu.Lock()
	defer p.devMu.Unlock()
	for i, od := range p.devices {
		if od.uuid == deviceUUID {
			p.devices = append(p.devices[:i], p.devices[i+1:]...)
			return true
		}
	}
	return false
}

// stringPool de-duplicates the strings produced by aggregation. It rides
// along as the capability record's extension and is dropped with it.
type stringPool struct {
	mu sync.Mutex
	m  map[string]string
}

func newStringPool() *stringPool {
	return &stringPool{m: make(map[string]string)}
}

func (sp *stringPool) intern(s string) string {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if cached, ok := sp.m[s]; ok {
		return cached
	}
	sp.m[s] = s
	return s
}

// Close releases the pool
func (sp *stringPool) Close() {
	sp.mu.Lock()
	sp.m = nil
	sp.mu.Unlock()
}

// deviceMargins is the per-device margin view used by the merge: the
// smallest nonzero supported margin, and whether zero (borderless) is
// offered at all
type deviceMargins struct {
	bottomTop    int
	leftRight    int
	borderlessBT bool
	borderlessLR bool
	sawBottomTop bool
	sawLeftRight bool
}

// Aggregate recomputes an infrastructure printer's capability record as the
// union of its output devices' snapshots and installs it through the same
// wholesale path a physical driver uses. The device list is copied under
// the device lock and the whole scan-and-install sequence is serialized, so
// concurrent aggregations cannot interleave.
func (p *Printer) Aggregate() error {
	p.aggMu.Lock()
	defer p.aggMu.Unlock()

	p.devMu.RLock()
	snapshots := make([]goipp.Attributes, 0, len(p.devices))
	for _, od := range p.devices {
		if snap := od.Snapshot(); len(snap) > 0 {
			snapshots = append(snapshots, snap)
		}
	}
	p.devMu.RUnlock()

	pool := newStringPool()
	data := mergeSnapshots(p.system, snapshots, pool)
	data.Extension = pool

	return p.SetDriverData(data)
}

// mergeSnapshots folds device snapshots into one capability record:
// enumerated capabilities union, bounded lists append de-duplicated,
// margins take the value furthest from zero, borderless survives only when
// every device offers it, and throughput is the ceiling-rounded average.
func mergeSnapshots(sys *System, snapshots []goipp.Attributes, pool *stringPool) driver.Data {
	var data driver.Data

	var ppmSum, ppmColorSum, ppmCount int
	margins := deviceMargins{borderlessBT: true, borderlessLR: true}

	for _, snap := range snapshots {
		mergeSnapshot(&data, snap, pool, &margins)

		if v, ok := intValue(snap, "pages-per-minute"); ok {
			ppmSum += v
			ppmCount++
			if c, ok := intValue(snap, "pages-per-minute-color"); ok {
				ppmColorSum += c
			}
		}
	}

	if ppmCount > 0 {
		data.PPM = int(math.Ceil(float64(ppmSum) / float64(ppmCount)))
		data.PPMColor = int(math.Ceil(float64(ppmColorSum) / float64(ppmCount)))
	}
	if data.PPM <= 0 {
		data.PPM = 1
	}
	if data.PPMColor > data.PPM {
		data.PPMColor = data.PPM
	}

	if margins.sawBottomTop {
		data.BottomTopMargin = margins.bottomTop
	}
	if margins.sawLeftRight {
		data.LeftRightMargin = margins.leftRight
	}
	// Borderless survives only when every device that reported margins
	// offered a zero margin
	data.Borderless = (margins.sawBottomTop || margins.sawLeftRight) &&
		margins.borderlessBT && margins.borderlessLR

	normalizeMerged(&data, pool)

	if data.MakeAndModel == "" {
		data.MakeAndModel = "Infrastructure Printer"
	}
	data.Format = "image/pwg-raster"
	data.Features |= driver.FeatureInfrastructurePrinter

	// Forwarding callbacks: an infrastructure printer prints by relaying to
	// an output device, so the local lifecycle only needs to accept data
	data.RawPrint = func(format string, r io.Reader) error {
		sys.Log.Debug("raw document accepted for relay", "format", format)
		return nil
	}
	data.Status = func() bool { return true }

	return data
}

// mergeSnapshot folds one device snapshot into the accumulator
func mergeSnapshot(data *driver.Data, snap goipp.Attributes, pool *stringPool, margins *deviceMargins) {
	for _, attr := range snap {
		switch attr.Name {
		case "printer-make-and-model":
			if data.MakeAndModel == "" {
				if vals := stringValues(attr); len(vals) > 0 {
					data.MakeAndModel = vals[0]
				}
			}

		case "finishing-template-supported":
			for _, kw := range stringValues(attr) {
				if bit, ok := driver.FinishingFromKeyword(kw); ok {
					data.Finishings |= bit
				}
			}

		case "identify-actions-supported":
			for _, kw := range stringValues(attr) {
				if bit, ok := driver.IdentifyActionFromKeyword(kw); ok {
					data.IdentifyActions |= bit
				}
			}

		case "print-color-mode-supported":
			for _, kw := range stringValues(attr) {
				if bit, ok := driver.ColorModeFromKeyword(kw); ok {
					data.ColorModes |= bit
				}
			}

		case "media-tracking-supported":
			for _, kw := range stringValues(attr) {
				if bit, ok := driver.MediaTrackingFromKeyword(kw); ok {
					data.MediaTracking |= bit
				}
			}

		case "pwg-raster-document-type-supported":
			for _, kw := range stringValues(attr) {
				if bit, ok := driver.RasterTypeFromKeyword(kw); ok {
					data.RasterTypes |= bit
				}
			}

		case "sides-supported":
			for _, kw := range stringValues(attr) {
				if bit, ok := driver.SideFromKeyword(kw); ok {
					data.Sides |= bit
				}
			}

		case "ipp-features-supported":
			for _, kw := range stringValues(attr) {
				if kw == "ipp-everywhere" {
					continue
				}
				if bit, ok := driver.FeatureFromKeyword(kw); ok {
					data.Features |= bit
				} else if !memberOf(data.VendorFeatures, kw) && len(data.VendorFeatures) < driver.MaxVendor {
					data.VendorFeatures = append(data.VendorFeatures, pool.intern(kw))
				}
			}

		case "media-supported":
			data.Media = appendBounded(data.Media, stringValues(attr), driver.MaxMedia, pool)

		case "media-source-supported":
			data.Source = appendBounded(data.Source, stringValues(attr), driver.MaxSource, pool)

		case "media-type-supported":
			data.Type = appendBounded(data.Type, stringValues(attr), driver.MaxType, pool)

		case "output-bin-supported":
			data.Bin = appendBounded(data.Bin, stringValues(attr), driver.MaxBin, pool)

		case "printer-resolution-supported":
			for _, v := range attr.Values {
				if res, ok := v.V.(goipp.Resolution); ok && res.Units == goipp.UnitsDpi {
					pair := driver.Resolution{X: res.Xres, Y: res.Yres}
					if !containsResolution(data.Resolutions, pair) && len(data.Resolutions) < driver.MaxResolutions {
						data.Resolutions = append(data.Resolutions, pair)
					}
				}
			}

		case "media-bottom-margin-supported":
			mergeMargin(attr, &margins.bottomTop, &margins.borderlessBT, &margins.sawBottomTop)

		case "media-left-margin-supported":
			mergeMargin(attr, &margins.leftRight, &margins.borderlessLR, &margins.sawLeftRight)
		}
	}
}

// mergeMargin merges one device's supported margin list: the device's
// smallest nonzero margin competes for the furthest-from-zero winner, and
// borderless survives only if this device lists zero
func mergeMargin(attr goipp.Attribute, margin *int, borderless *bool, saw *bool) {
	deviceMin := 0
	deviceBorderless := false
	for _, v := range attr.Values {
		i, ok := v.V.(goipp.Integer)
		if !ok {
			continue
		}
		val := int(i)
		if val == 0 {
			deviceBorderless = true
			continue
		}
		if deviceMin == 0 || val < deviceMin {
			deviceMin = val
		}
	}

	*saw = true
	if deviceMin > *margin {
		*margin = deviceMin
	}
	if !deviceBorderless {
		*borderless = false
	}
}

// normalizeMerged guarantees the merged record is structurally usable: a
// merge that produced no media, sources, types, or resolutions is seeded
// with defaults, defaults are chosen from the merged sets, and every source
// gets a ready-media entry.
func normalizeMerged(data *driver.Data, pool *stringPool) {
	if len(data.Media) == 0 {
		data.Media = []string{pool.intern(media.Letter), pool.intern(media.A4)}
	}
	if len(data.Source) == 0 {
		data.Source = []string{pool.intern("auto")}
	}
	if len(data.Type) == 0 {
		data.Type = []string{pool.intern("stationery")}
	}
	if len(data.Resolutions) == 0 {
		data.Resolutions = []driver.Resolution{{X: 300, Y: 300}}
	}
	if data.RasterTypes == 0 {
		data.RasterTypes = driver.RasterTypeSGray8 | driver.RasterTypeSRGB8
	}
	if data.ColorModes == 0 {
		data.ColorModes = driver.ColorModeMonochrome
		if data.RasterTypes&(driver.RasterTypeSRGB8|driver.RasterTypeRGB8|driver.RasterTypeRGB16) != 0 {
			data.ColorModes |= driver.ColorModeColor
		}
	}
	// The pool always picks a device, so automatic selection is supported
	// and serves as the default
	data.ColorModes |= driver.ColorModeAuto
	data.Sides |= driver.SideOneSided
	if data.Sides&^driver.SideOneSided != 0 && data.Duplex == driver.DuplexNone {
		data.Duplex = driver.DuplexNormal
	}

	// Defaults come from the merged sets
	firstConcrete := ""
	for _, name := range data.Media {
		if !media.IsRange(name) {
			firstConcrete = name
			break
		}
	}
	if firstConcrete == "" {
		firstConcrete = media.Letter
	}
	size, _ := media.Parse(firstConcrete)

	data.MediaDefault = driver.MediaCol{
		SizeName:     size.Name,
		Width:        size.Width,
		Length:       size.Length,
		BottomMargin: data.BottomTopMargin,
		TopMargin:    data.BottomTopMargin,
		LeftMargin:   data.LeftRightMargin,
		RightMargin:  data.LeftRightMargin,
		Source:       data.Source[0],
		Type:         data.Type[0],
	}
	data.ColorModeDefault = driver.ColorModeAuto
	data.ResolutionDefault = data.Resolutions[0]
	data.SidesDefault = driver.SideOneSided
	if data.IdentifyActions != 0 && data.IdentifyDefault == 0 {
		for _, bit := range []driver.IdentifyAction{driver.IdentifyActionDisplay, driver.IdentifyActionFlash, driver.IdentifyActionSound, driver.IdentifyActionSpeak} {
			if data.IdentifyActions&bit != 0 {
				data.IdentifyDefault = bit
				break
			}
		}
	}

	// Any source lacking a concrete ready entry gets one synthesized from
	// the first known media/source/type combination and the merged margins
	ready := make([]driver.MediaCol, len(data.Source))
	for i, src := range data.Source {
		ready[i] = data.MediaDefault
		ready[i].Source = pool.intern(src)
	}
	data.MediaReady = ready
}

// appendBounded appends values not already present, up to max entries
func appendBounded(list []string, values []string, max int, pool *stringPool) []string {
	for _, v := range values {
		if v == "" || memberOf(list, v) {
			continue
		}
		if len(list) >= max {
			break
		}
		list = append(list, pool.intern(v))
	}
	return list
}

func containsResolution(list []driver.Resolution, r driver.Resolution) bool {
	for _, v := range list {
		if v == r {
			return true
		}
	}
	return false
}

// stringValues extracts the string-ish values of an attribute
func stringValues(attr goipp.Attribute) []string {
	var out []string
	for _, v := range attr.Values {
		if s, ok := v.V.(goipp.String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// intValue extracts the first integer value of a named attribute
func intValue(attrs goipp.Attributes, name string) (int, bool) {
	for _, attr := range attrs {
		if attr.Name != name {
			continue
		}
		for _, v := range attr.Values {
			if i, ok := v.V.(goipp.Integer); ok {
				return int(i), true
			}
		}
	}
	return 0, false
}
