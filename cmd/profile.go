package cmd

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/huangsam/fdr/internal/contract"
)

// pprofSession owns the pprof files of one CLI invocation.
type pprofSession struct {
	cfg     contract.ProfileConfig
	cpuFile *os.File
}

var profiler = &pprofSession{}

// start begins CPU profiling when prefix is set. Notices go to stderr so
// machine output on stdout stays clean.
func (p *pprofSession) start(prefix string) error {
	if err := contract.ProcessProfilingConfig(&p.cfg, prefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if !p.cfg.Enabled || p.cpuFile != nil {
		return nil
	}

	cpuPath := p.cfg.Prefix + ".cpu.prof"
	cpuFile, err := os.Create(cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		_ = cpuFile.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	p.cpuFile = cpuFile

	_, _ = fmt.Fprintf(os.Stderr, "Profiling to %s and %s.mem.prof\n", cpuPath, p.cfg.Prefix)
	return nil
}

// stop ends CPU profiling and snapshots the heap next to it.
func (p *pprofSession) stop() error {
	if p.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := p.cpuFile.Close()
	p.cpuFile = nil

	memFile, err := os.Create(p.cfg.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	if cpuErr != nil {
		return fmt.Errorf("could not close CPU profile: %w", cpuErr)
	}

	_, _ = fmt.Fprintf(os.Stderr, "Profiles written. Inspect with 'go tool pprof %s.cpu.prof'.\n", p.cfg.Prefix)
	return nil
}
