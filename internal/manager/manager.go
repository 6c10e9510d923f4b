// Package manager owns the lifecycle of a locally spawned llama-server
// child process. It manages at most one process at a time: Start
// spawns the binary and polls its health endpoint until ready (rolling
// back on failure), Stop signals it and clears the recorded state.
package manager

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"llamamcp/pkg/types"
)

// Defaults for the llama-server command line when the caller omits
// the corresponding parameter.
const (
	DefaultPort      = 8080
	DefaultCtxSize   = 2048
	DefaultGPULayers = -1
)

// HealthChecker is the slice of the llama-server client the manager
// needs to confirm readiness.
type HealthChecker interface {
	Health(ctx context.Context) (*types.Health, error)
}

// Config carries the spawn settings. PollAttempts and PollInterval
// bound the readiness wait; zero values select 30 attempts at 1s,
// independent of the client's request timeout.
type Config struct {
	Bin          string
	PollAttempts int
	PollInterval time.Duration
}

// Manager holds the process state record. cmd and pid are either both
// set (child presumed running) or both zero (not running), never one
// without the other. State is mutated only by Start, Stop and the
// child-exit watcher, all under mu.
type Manager struct {
	cfg    Config
	health HealthChecker
	log    zerolog.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
	pid int
}

// New constructs a manager. Multiple managers are independent; each
// owns its own process slot.
func New(cfg Config, health HealthChecker, log zerolog.Logger) *Manager {
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = 30
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Manager{cfg: cfg, health: health, log: log}
}

// StartParams are the llama-server launch parameters. Zero Port and
// CtxSize select the defaults; nil GPULayers selects -1 (all layers);
// Threads is only passed when set.
type StartParams struct {
	Model     string
	Port      int
	CtxSize   int
	GPULayers *int
	Threads   *int
}

// Running reports the recorded child pid, if any.
func (m *Manager) Running() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pid, m.pid != 0
}

// Start spawns llama-server and blocks until it reports healthy.
// The state transitions to Running right after the spawn, before
// health is confirmed; if the poll budget runs out the child is
// terminated and the state rolled back.
func (m *Manager) Start(ctx context.Context, p StartParams) (*types.StartResult, error) {
	port := p.Port
	if port == 0 {
		port = DefaultPort
	}
	args := buildArgs(p, port)

	m.mu.Lock()
	if m.pid != 0 {
		pid := m.pid
		m.mu.Unlock()
		return nil, ErrAlreadyRunning(pid)
	}

	cmd := exec.Command(m.cfg.Bin, args...)
	// Stdin stays nil so the child reads from the null device; output
	// is captured but not surfaced by this layer.
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Start(); err != nil {
		m.mu.Unlock()
		return nil, ErrSpawnFailed(m.cfg.Bin, err)
	}
	pid := cmd.Process.Pid
	m.cmd = cmd
	m.pid = pid
	m.mu.Unlock()

	m.log.Info().Str("model", p.Model).Int("pid", pid).Int("port", port).Msg("llama-server spawned")

	// Reap the child and clear the state if it exits on its own,
	// whatever this layer is doing at that moment.
	go func() {
		_ = cmd.Wait()
		m.clearIf(cmd)
	}()

	for attempt := 1; attempt <= m.cfg.PollAttempts; attempt++ {
		h, err := m.health.Health(ctx)
		if err == nil && h.Status == types.HealthOK {
			m.log.Info().Int("pid", pid).Int("attempt", attempt).Msg("llama-server healthy")
			return &types.StartResult{Status: "started", PID: pid, Model: p.Model, Port: port}, nil
		}
		// "loading" and transport errors both mean not ready yet; each
		// consumes one attempt.
		if err != nil {
			m.log.Debug().Int("attempt", attempt).Err(err).Msg("health poll")
		} else {
			m.log.Debug().Int("attempt", attempt).Str("status", string(h.Status)).Msg("health poll")
		}
		if attempt < m.cfg.PollAttempts {
			time.Sleep(m.cfg.PollInterval)
		}
	}

	m.mu.Lock()
	if m.cmd == cmd {
		_ = cmd.Process.Signal(syscall.SIGTERM)
		m.cmd = nil
		m.pid = 0
	}
	m.mu.Unlock()
	m.log.Warn().Int("pid", pid).Msg("llama-server terminated after failed health wait")
	return nil, ErrNotHealthy(m.cfg.PollAttempts, m.cfg.PollInterval)
}

// Stop signals the running child with SIGTERM and clears the state.
// If the signal itself fails the state is left untouched so the caller
// can retry; the exit watcher still clears it if the child dies.
func (m *Manager) Stop() (*types.StopResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd == nil {
		return nil, ErrNotRunning()
	}
	pid := m.pid
	if err := m.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return nil, ErrSignalFailed(pid, err)
	}
	m.cmd = nil
	m.pid = 0
	m.log.Info().Int("pid", pid).Msg("llama-server stopped")
	return &types.StopResult{Status: "stopped", PID: pid}, nil
}

// buildArgs assembles the llama-server command line. The thread count
// is only passed when explicitly supplied.
func buildArgs(p StartParams, port int) []string {
	ctxSize := p.CtxSize
	if ctxSize == 0 {
		ctxSize = DefaultCtxSize
	}
	gpuLayers := DefaultGPULayers
	if p.GPULayers != nil {
		gpuLayers = *p.GPULayers
	}
	args := []string{
		"-m", p.Model,
		"--port", strconv.Itoa(port),
		"-c", strconv.Itoa(ctxSize),
		"-ngl", strconv.Itoa(gpuLayers),
	}
	if p.Threads != nil {
		args = append(args, "-t", strconv.Itoa(*p.Threads))
	}
	return args
}

// clearIf resets the state to Stopped if it still refers to cmd.
func (m *Manager) clearIf(cmd *exec.Cmd) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd == cmd {
		m.log.Info().Int("pid", m.pid).Msg("llama-server exited")
		m.cmd = nil
		m.pid = 0
	}
}
