// Command vprinterd runs the virtual printer daemon: it creates the
// configured printers, exposes their capability records, and keeps
// infrastructure printers aggregated from their output devices.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/kardianos/service"

	"vprinter/config"
	"vprinter/driver"
	"vprinter/logger"
	"vprinter/printer"
	"vprinter/state"
)

// Version information, set at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (searches standard locations if empty)")
	serviceCmd := flag.String("service", "", "Service control: install, uninstall, start, stop")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vprinterd %s\n", Version)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return
	}

	if *serviceCmd != "" {
		handleServiceCommand(*serviceCmd)
		return
	}

	if !service.Interactive() {
		runAsService(*configPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "vprinterd: %v\n", err)
		os.Exit(1)
	}
}

// run is the daemon body; it returns when ctx is cancelled
func run(ctx context.Context, configPath string) error {
	if configPath == "" {
		configPath = config.FindConfigFile("vprinterd.toml")
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.LevelFromString(settings.Server.LogLevel), filepath.Join(settings.Server.DataDir, "logs"))
	log.SetConsoleOutput(settings.Server.Console)
	defer log.Close()

	log.Info("vprinterd starting", "version", Version, "config", configPath)

	state.SetLogger(log)
	store, err := state.Open(filepath.Join(settings.Server.DataDir, "state.db"))
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer store.Close()

	sys := printer.NewSystem(settings.Server.Name, log)
	sys.MaxImageWidth = settings.Limits.MaxImageWidth
	sys.MaxImageHeight = settings.Limits.MaxImageHeight

	// Built-in conversions to the raster formats the drivers accept
	sys.RegisterFilter("application/pdf", "image/pwg-raster")
	sys.RegisterFilter("image/jpeg", "image/pwg-raster")
	sys.RegisterFilter("image/png", "image/pwg-raster")

	printers := settings.Printers
	if len(printers) == 0 {
		printers = []config.PrinterConfig{{Name: "office", Driver: "pwg-office"}}
	}

	var infraPrinters []*printer.Printer
	for _, pc := range printers {
		if pc.Driver == "infra" {
			p, err := sys.CreateInfraPrinter(pc.Name)
			if err != nil {
				return fmt.Errorf("failed to create infrastructure printer %q: %w", pc.Name, err)
			}
			infraPrinters = append(infraPrinters, p)
			continue
		}

		data, err := driverFor(pc.Driver, log)
		if err != nil {
			return fmt.Errorf("printer %q: %w", pc.Name, err)
		}
		p, err := sys.CreatePrinter(pc.Name, data)
		if err != nil {
			return fmt.Errorf("failed to create printer %q: %w", pc.Name, err)
		}
		restoreState(ctx, log, store, p)
	}

	// Periodic re-aggregation picks up output device changes
	if len(infraPrinters) > 0 {
		go aggregateLoop(ctx, log, infraPrinters, time.Duration(settings.Infra.PollSeconds)*time.Second)
	}

	log.Info("vprinterd running", "printers", len(printers))
	<-ctx.Done()
	log.Info("vprinterd shutting down")

	for _, p := range sys.Printers() {
		saveState(log, store, p)
		sys.RemovePrinter(p.Name())
	}
	return nil
}

// restoreState re-applies persisted administrator settings to a freshly
// created printer. Saved state that no longer validates against the current
// capability record is dropped rather than fatal.
func restoreState(ctx context.Context, log *logger.Logger, store *state.Store, p *printer.Printer) {
	if defaults, err := store.LoadDefaults(ctx, p.Name()); err == nil {
		if err := p.SetDriverDefaults(defaults); err != nil {
			log.Warn("saved defaults no longer valid, ignoring", "printer", p.Name(), "error", err)
		}
	} else if err != state.ErrNotFound {
		log.Warn("failed to load saved defaults", "printer", p.Name(), "error", err)
	}

	if ready, err := store.LoadReadyMedia(ctx, p.Name()); err == nil {
		if err := p.SetReadyMedia(ready); err != nil {
			log.Warn("saved ready media no longer valid, ignoring", "printer", p.Name(), "error", err)
		}
	} else if err != state.ErrNotFound {
		log.Warn("failed to load saved ready media", "printer", p.Name(), "error", err)
	}
}

// saveState persists a printer's current settings at shutdown
func saveState(log *logger.Logger, store *state.Store, p *printer.Printer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := p.Driver()
	if err := store.SaveDefaults(ctx, p.Name(), driver.DefaultsOf(&d)); err != nil {
		log.Warn("failed to save defaults", "printer", p.Name(), "error", err)
	}
	if err := store.SaveReadyMedia(ctx, p.Name(), p.ReadyMedia(0)); err != nil {
		log.Warn("failed to save ready media", "printer", p.Name(), "error", err)
	}
}

// aggregateLoop re-runs aggregation for every infrastructure printer on a
// fixed interval until ctx is cancelled
func aggregateLoop(ctx context.Context, log *logger.Logger, printers []*printer.Printer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range printers {
				if err := p.Aggregate(); err != nil {
					log.Warn("aggregation failed", "printer", p.Name(), "error", err)
				}
			}
		}
	}
}
