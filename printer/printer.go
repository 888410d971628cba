package printer

import (
	"fmt"
	"sync"

	"github.com/OpenPrinting/goipp"
	"github.com/google/uuid"

	"vprinter/driver"
)

// Printer is one logical printer. A single reader/writer lock guards the
// capability record, the ready media inside it, and the derived attribute
// collection as one critical region: a reader sees either the fully-old or
// fully-new pair, never a mix.
type Printer struct {
	system *System
	name   string
	uuid   string
	infra  bool

	mu     sync.RWMutex
	driver driver.Data
	attrs  goipp.Attributes

	// Output devices (infrastructure printers only), under their own lock
	devMu   sync.RWMutex
	devices []*OutputDevice

	// Serializes aggregate-and-install sequences
	aggMu sync.Mutex
}

func newPrinter(sys *System, name string) *Printer {
	return &Printer{
		system: sys,
		name:   name,
		uuid:   uuid.NewString(),
	}
}

// Name returns the printer name
func (p *Printer) Name() string {
	return p.name
}

// UUID returns the printer UUID
func (p *Printer) UUID() string {
	return p.uuid
}

// IsInfra reports whether this is an infrastructure printer
func (p *Printer) IsInfra() bool {
	return p.infra
}

// Driver returns a copy of the current capability record. Internal slices
// are duplicated; callers may mutate the result freely.
func (p *Printer) Driver() driver.Data {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.driver.Clone()
}

// Attributes returns a copy of the cached derived attribute collection
func (p *Printer) Attributes() goipp.Attributes {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return copyAttributes(p.attrs)
}

// ReadyMedia returns up to max loaded-media entries (all of them when max
// is zero or negative)
func (p *Printer) ReadyMedia(max int) []driver.MediaCol {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.driver.MediaReady)
	if max > 0 && max < n {
		n = max
	}
	out := make([]driver.MediaCol, n)
	copy(out, p.driver.MediaReady[:n])
	return out
}

// SetDriverData validates and installs a complete capability record,
// rebuilding the derived attributes under the same write lock. On any
// validation failure the previously installed record and attributes are
// left untouched.
func (p *Printer) SetDriverData(data driver.Data) error {
	log := p.system.Log

	ok := driver.ValidateDriver(log, &data)
	defaults := driver.DefaultsOf(&data)
	if !driver.ValidateDefaults(log, &data, &defaults) {
		ok = false
	}
	if !driver.ValidateReady(log, &data, data.MediaReady) {
		ok = false
	}
	if !ok {
		return fmt.Errorf("driver data for printer %q failed validation", p.name)
	}

	attrs := makeAttrs(p.system, &data)

	p.mu.Lock()
	old := p.driver.Extension
	p.driver = data
	p.attrs = attrs
	p.mu.Unlock()

	if old != nil && old != data.Extension {
		old.Close()
	}
	return nil
}

// SetDriverDefaults validates and installs new default values against the
// current record, revalidating only the defaults, then resynthesizes the
// attribute collection.
func (p *Printer) SetDriverDefaults(defaults driver.Defaults) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !driver.ValidateDefaults(p.system.Log, &p.driver, &defaults) {
		return fmt.Errorf("defaults for printer %q failed validation", p.name)
	}

	defaults.Apply(&p.driver)
	p.attrs = makeAttrs(p.system, &p.driver)
	return nil
}

// SetReadyMedia validates and installs new loaded-media state against the
// current record, then resynthesizes the attribute collection.
func (p *Printer) SetReadyMedia(ready []driver.MediaCol) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !driver.ValidateReady(p.system.Log, &p.driver, ready) {
		return fmt.Errorf("ready media for printer %q failed validation", p.name)
	}

	p.driver.MediaReady = append([]driver.MediaCol(nil), ready...)
	p.attrs = makeAttrs(p.system, &p.driver)
	return nil
}

// IdentifyPrinter invokes the driver's identify callback, if any. The
// callback runs without the printer lock held.
func (p *Printer) IdentifyPrinter(actions driver.IdentifyAction, message string) {
	p.mu.RLock()
	cb := p.driver.Identify
	if actions == 0 {
		actions = p.driver.IdentifyDefault
	}
	p.mu.RUnlock()

	if cb == nil {
		p.system.Log.Warn("identify requested but driver has no identify callback", "printer", p.name)
		return
	}
	cb(actions, message)
}

// close releases resources owned by the printer
func (p *Printer) close() {
	p.mu.Lock()
	ext := p.driver.Extension
	p.driver.Extension = nil
	p.mu.Unlock()

	if ext != nil {
		ext.Close()
	}
}

// copyAttributes deep-copies an attribute collection, including nested
// collection values, so no internal reference escapes the printer lock.
func copyAttributes(attrs goipp.Attributes) goipp.Attributes {
	if attrs == nil {
		return nil
	}
	out := make(goipp.Attributes, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, copyAttribute(attr))
	}
	return out
}

func copyAttribute(attr goipp.Attribute) goipp.Attribute {
	out := goipp.Attribute{Name: attr.Name}
	for _, v := range attr.Values {
		if col, ok := v.V.(goipp.Collection); ok {
			out.Values.Add(v.T, goipp.Collection(copyAttributes(goipp.Attributes(col))))
			continue
		}
		out.Values.Add(v.T, v.V)
	}
	return out
}
