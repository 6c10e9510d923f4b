package manager

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"llamamcp/internal/llamacpp"
)

// buildTestBinary builds the fake llama-server used for subprocess
// tests and returns its path.
func buildTestBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "fake_llama_server")
	cmd := exec.Command("go", "build", "-o", bin, "./testdata/fake_llama_server.go")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build fake server: %v: %s", err, string(out))
	}
	return bin
}

// freePort reserves and releases a TCP port on the loopback interface.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// newTestManager wires a manager to a client polling the given port,
// with a short poll budget to keep tests fast.
func newTestManager(t *testing.T, bin string, port, attempts int) *Manager {
	t.Helper()
	client, err := llamacpp.New(fmt.Sprintf("http://127.0.0.1:%d", port), time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return New(Config{Bin: bin, PollAttempts: attempts, PollInterval: 100 * time.Millisecond}, client, zerolog.Nop())
}

// checkStateInvariant asserts cmd and pid are both set or both clear.
func checkStateInvariant(t *testing.T, m *Manager) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if (m.cmd == nil) != (m.pid == 0) {
		t.Fatalf("state invariant violated: cmd=%v pid=%d", m.cmd, m.pid)
	}
}

func TestStartBecomesHealthyThenStop(t *testing.T) {
	bin := buildTestBinary(t)
	port := freePort(t)
	m := newTestManager(t, bin, port, 20)

	res, err := m.Start(context.Background(), StartParams{Model: "/m.gguf", Port: port})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _, _ = m.Stop() }()
	if res.Status != "started" || res.Model != "/m.gguf" || res.Port != port {
		t.Fatalf("unexpected start result: %+v", res)
	}
	if res.PID <= 0 {
		t.Fatalf("expected a positive pid, got %d", res.PID)
	}
	if pid, ok := m.Running(); !ok || pid != res.PID {
		t.Fatalf("state should hold pid %d, got %d/%v", res.PID, pid, ok)
	}
	checkStateInvariant(t, m)

	stop, err := m.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stop.Status != "stopped" || stop.PID != res.PID {
		t.Fatalf("unexpected stop result: %+v", stop)
	}
	if _, ok := m.Running(); ok {
		t.Fatalf("state should be cleared after Stop")
	}
	checkStateInvariant(t, m)
}

func TestStartWhileRunningFails(t *testing.T) {
	bin := buildTestBinary(t)
	port := freePort(t)
	m := newTestManager(t, bin, port, 20)

	res, err := m.Start(context.Background(), StartParams{Model: "/m.gguf", Port: port})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _, _ = m.Stop() }()

	_, err = m.Start(context.Background(), StartParams{Model: "/other.gguf", Port: port})
	if err == nil {
		t.Fatalf("expected error for second start")
	}
	if !IsAlreadyRunning(err) {
		t.Fatalf("expected already-running error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "already running") || !strings.Contains(err.Error(), strconv.Itoa(res.PID)) {
		t.Fatalf("error should name the running pid: %q", err.Error())
	}
	if pid, ok := m.Running(); !ok || pid != res.PID {
		t.Fatalf("first process must stay recorded, got %d/%v", pid, ok)
	}
}

func TestStopWhileStoppedFails(t *testing.T) {
	m := newTestManager(t, "llama-server", freePort(t), 1)
	_, err := m.Stop()
	if err == nil {
		t.Fatalf("expected error for stop without process")
	}
	if !IsNotRunning(err) {
		t.Fatalf("expected not-running error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "not running") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	checkStateInvariant(t, m)
}

func TestStartSpawnFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-llama-server")
	port := freePort(t)
	m := newTestManager(t, missing, port, 1)

	_, err := m.Start(context.Background(), StartParams{Model: "/m.gguf", Port: port})
	if err == nil {
		t.Fatalf("expected spawn failure")
	}
	if !IsSpawnFailed(err) {
		t.Fatalf("expected spawn error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "failed to start") || !strings.Contains(err.Error(), missing) {
		t.Fatalf("error should name the binary path: %q", err.Error())
	}
	if _, ok := m.Running(); ok {
		t.Fatalf("state must stay Stopped after spawn failure")
	}
	checkStateInvariant(t, m)
}

func TestStartHealthTimeoutRollsBack(t *testing.T) {
	bin := buildTestBinary(t)
	port := freePort(t)
	t.Setenv("FAKE_LLAMA_NEVER_READY", "1")
	m := newTestManager(t, bin, port, 3)

	_, err := m.Start(context.Background(), StartParams{Model: "/m.gguf", Port: port})
	if err == nil {
		t.Fatalf("expected health timeout")
	}
	if !IsNotHealthy(err) {
		t.Fatalf("expected not-healthy error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "did not become healthy") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if _, ok := m.Running(); ok {
		t.Fatalf("state must be rolled back after failed health wait")
	}
	checkStateInvariant(t, m)
}

func TestStartWaitsThroughLoading(t *testing.T) {
	bin := buildTestBinary(t)
	port := freePort(t)
	t.Setenv("FAKE_LLAMA_LOADING_POLLS", "2")
	m := newTestManager(t, bin, port, 20)

	res, err := m.Start(context.Background(), StartParams{Model: "/m.gguf", Port: port})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _, _ = m.Stop() }()
	if res.Status != "started" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestChildExitClearsState(t *testing.T) {
	bin := buildTestBinary(t)
	port := freePort(t)
	m := newTestManager(t, bin, port, 20)

	res, err := m.Start(context.Background(), StartParams{Model: "/m.gguf", Port: port})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := syscall.Kill(res.PID, syscall.SIGKILL); err != nil {
		t.Fatalf("kill: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, ok := m.Running(); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("state was not cleared after child exit")
		}
		time.Sleep(20 * time.Millisecond)
	}
	checkStateInvariant(t, m)

	if _, err := m.Stop(); !IsNotRunning(err) {
		t.Fatalf("stop after child exit should report not running, got %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs(StartParams{Model: "/m.gguf"}, DefaultPort)
	want := []string{"-m", "/m.gguf", "--port", "8080", "-c", "2048", "-ngl", "-1"}
	if len(args) != len(want) {
		t.Fatalf("args mismatch: got %v want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args mismatch at %d: got %v want %v", i, args, want)
		}
	}

	threads := 6
	gpu := 0
	args = buildArgs(StartParams{Model: "/m.gguf", CtxSize: 4096, GPULayers: &gpu, Threads: &threads}, 9090)
	want = []string{"-m", "/m.gguf", "--port", "9090", "-c", "4096", "-ngl", "0", "-t", "6"}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args mismatch at %d: got %v want %v", i, args, want)
		}
	}
}
