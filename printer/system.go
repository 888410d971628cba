// Package printer implements the printer capability subsystem: each Printer
// owns one capability record plus the IPP attribute collection derived from
// it, guarded together by a single reader/writer lock. The System supplies
// the shared context (format-conversion filters, image limits) that
// attribute synthesis depends on.
package printer

import (
	"fmt"
	"sort"
	"sync"

	"vprinter/driver"
	"vprinter/logger"
)

// Filter describes one registered format conversion (source MIME type to
// destination MIME type). Filters whose destination is a printer's native
// format extend that printer's document-format-supported list.
type Filter struct {
	Src string
	Dst string
}

// System is the shared context for all printers
type System struct {
	Name string
	Log  *logger.Logger

	// Image dimension ceilings advertised to clients
	MaxImageWidth  int
	MaxImageHeight int

	mu       sync.RWMutex
	printers map[string]*Printer

	fmu     sync.RWMutex
	filters []Filter
}

// NewSystem creates a system with the given name and logger
func NewSystem(name string, log *logger.Logger) *System {
	return &System{
		Name:           name,
		Log:            log,
		MaxImageWidth:  16384,
		MaxImageHeight: 16384,
		printers:       make(map[string]*Printer),
	}
}

// RegisterFilter registers a format conversion. Registration order is
// preserved and visible in synthesized format lists.
func (s *System) RegisterFilter(src, dst string) {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	for _, f := range s.filters {
		if f.Src == src && f.Dst == dst {
			return
		}
	}
	s.filters = append(s.filters, Filter{Src: src, Dst: dst})
}

// filterSources returns the source formats of every filter converting to dst,
// in registration order
func (s *System) filterSources(dst string) []string {
	s.fmu.RLock()
	defer s.fmu.RUnlock()
	var out []string
	for _, f := range s.filters {
		if f.Dst == dst {
			out = append(out, f.Src)
		}
	}
	return out
}

// maxRasterSize converts the system's image pixel ceilings into the largest
// media dimensions the printer can rasterize at its lowest supported
// resolution, in hundredths of millimetres.
func (s *System) maxRasterSize(d *driver.Data) (width, length int, ok bool) {
	if s.MaxImageWidth <= 0 || s.MaxImageHeight <= 0 || len(d.Resolutions) == 0 {
		return 0, 0, false
	}
	minX, minY := d.Resolutions[0].X, d.Resolutions[0].Y
	for _, res := range d.Resolutions[1:] {
		if res.X < minX {
			minX = res.X
		}
		if res.Y < minY {
			minY = res.Y
		}
	}
	return s.MaxImageWidth * 2540 / minX, s.MaxImageHeight * 2540 / minY, true
}

// CreatePrinter creates a printer, validates and installs its capability
// record, and registers it. The record must pass full validation.
func (s *System) CreatePrinter(name string, data driver.Data) (*Printer, error) {
	if name == "" {
		return nil, fmt.Errorf("printer name is required")
	}

	s.mu.Lock()
	if _, exists := s.printers[name]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("printer %q already exists", name)
	}
	p := newPrinter(s, name)
	s.printers[name] = p
	s.mu.Unlock()

	if err := p.SetDriverData(data); err != nil {
		s.RemovePrinter(name)
		return nil, err
	}

	s.Log.Info("created printer", "printer", name, "make_and_model", data.MakeAndModel)
	return p, nil
}

// CreateInfraPrinter creates an infrastructure printer: one with no engine
// of its own whose capability record is aggregated from output devices. The
// initial record is the aggregate of zero devices (seeded defaults).
func (s *System) CreateInfraPrinter(name string) (*Printer, error) {
	s.mu.Lock()
	if _, exists := s.printers[name]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("printer %q already exists", name)
	}
	p := newPrinter(s, name)
	p.infra = true
	s.printers[name] = p
	s.mu.Unlock()

	if err := p.Aggregate(); err != nil {
		s.RemovePrinter(name)
		return nil, err
	}

	s.Log.Info("created infrastructure printer", "printer", name)
	return p, nil
}

// Printer returns the named printer, or nil
func (s *System) Printer(name string) *Printer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.printers[name]
}

// Printers returns all printers sorted by name
func (s *System) Printers() []*Printer {
	s.mu.RLock()
	out := make([]*Printer, 0, len(s.printers))
	for _, p := range s.printers {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// RemovePrinter removes and destroys the named printer
func (s *System) RemovePrinter(name string) {
	s.mu.Lock()
	p := s.printers[name]
	delete(s.printers, name)
	s.mu.Unlock()

	if p != nil {
		p.close()
		s.Log.Info("removed printer", "printer", name)
	}
}
