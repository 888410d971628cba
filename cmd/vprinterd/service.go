package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/kardianos/service"
)

// program implements service.Interface
type program struct {
	configPath string
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	svcLogger  service.Logger
}

func (p *program) Start(s service.Service) error {
	p.svcLogger, _ = s.Logger(nil)
	if p.svcLogger != nil {
		p.svcLogger.Info("vprinterd service starting")
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		if err := run(p.ctx, p.configPath); err != nil && p.svcLogger != nil {
			p.svcLogger.Error(err)
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	if p.cancel != nil {
		p.cancel()
	}

	select {
	case <-p.done:
		if p.svcLogger != nil {
			p.svcLogger.Info("vprinterd service stopped")
		}
	case <-time.After(30 * time.Second):
		if p.svcLogger != nil {
			p.svcLogger.Warning("vprinterd service stopped with timeout")
		}
	}
	return nil
}

// runAsService runs the daemon under the platform service manager
func runAsService(configPath string) {
	prg := &program{configPath: configPath}
	s, err := service.New(prg, getServiceConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create service: %v\n", err)
		os.Exit(1)
	}
	if err := s.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Service failed: %v\n", err)
		os.Exit(1)
	}
}

// handleServiceCommand processes service install/uninstall/start/stop commands
func handleServiceCommand(cmd string) {
	prg := &program{}
	s, err := service.New(prg, getServiceConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create service: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "install", "uninstall", "start", "stop":
		if err := service.Control(s, cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to %s service: %v\n", cmd, err)
			os.Exit(1)
		}
		fmt.Printf("Service %s: done\n", cmd)
	default:
		fmt.Fprintf(os.Stderr, "Unknown service command %q (want install, uninstall, start, stop)\n", cmd)
		os.Exit(1)
	}
}

// getServiceConfig returns the service configuration for the current platform
func getServiceConfig() *service.Config {
	var workingDir string
	switch runtime.GOOS {
	case "windows":
		workingDir = filepath.Join(os.Getenv("ProgramData"), "vprinter")
	case "darwin":
		workingDir = "/Library/Application Support/vprinter"
	default:
		workingDir = "/var/lib/vprinter"
	}

	return &service.Config{
		Name:             "vprinterd",
		DisplayName:      "Virtual Printer Daemon",
		Description:      "Hosts virtual IPP printers and aggregates infrastructure printer capabilities.",
		WorkingDirectory: workingDir,
		Option: service.KeyValue{
			"StartType":        "automatic",
			"Restart":          "on-failure",
			"RestartSec":       5,
			"KillMode":         "mixed",
			"KillSignal":       "SIGTERM",
			"RunAtLoad":        true,
			"KeepAlive":        true,
			"SessionCreate":    false,
			"DelayedAutoStart": true,
		},
	}
}
