package hooks

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/overlaphq/overlap-cli/api"
	"github.com/overlaphq/overlap-cli/config"
	"github.com/overlaphq/overlap-cli/logging"
	"github.com/overlaphq/overlap-cli/probe"
	"github.com/overlaphq/overlap-cli/register"
	"github.com/overlaphq/overlap-cli/sessions"
	"github.com/sirupsen/logrus"
)

const (
	// throttleWindow is the client-side heartbeat suppression window,
	// tracked separately for reads and writes.
	throttleWindow = 5 * time.Second

	// gcMaxAge is the age ceiling past which stored entries are collected.
	gcMaxAge = 48 * time.Hour
)

// Runtime holds everything one hook invocation needs: configuration,
// logger, store, and (when configured) the API client and coordinator.
// It is created at process start and closed at process end; there is no
// other process-wide mutable state.
type Runtime struct {
	Config      *config.Config
	Logger      *logrus.Entry
	Store       *sessions.Store
	Client      *api.Client
	Coordinator *register.Coordinator
	Probe       register.ProbeFunc
	Stdout      io.Writer
	Stderr      io.Writer
}

// NewRuntime builds the runtime for one hook process.
func NewRuntime(hook string) *Runtime {
	cfg := config.Load()
	rt := &Runtime{
		Config: cfg,
		Logger: logging.NewLogger(hook),
		Store:  sessions.NewStore(),
		Probe:  probe.Collect,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if cfg.IsConfigured() {
		rt.Client = api.NewClient(cfg)
		rt.Coordinator = register.New(rt.Store, rt.Client)
	}
	return rt
}

// Close flushes buffered log entries to the server, best-effort. It runs
// regardless of how the handler finished.
func (r *Runtime) Close() {
	entries := logging.DrainBuffer()
	if r.Client == nil || len(entries) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.Client.UploadLogs(ctx, entries)
}

// configured checks the three required settings and logs the skip when
// they are missing.
func (r *Runtime) configured() bool {
	if r.Config.IsConfigured() && r.Coordinator != nil {
		return true
	}
	r.Logger.Debug("Not configured, skipping")
	return false
}
