// Package profiling starts the optional pprof endpoint and Pyroscope continuous
// profiling. Both are off unless enabled in Config.
package profiling

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime"
	"time"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
)

// Defaults.
const (
	DefaultPprofAddress    = "localhost:6060"
	DefaultPyroscopeServer = "http://pyroscope:4040"
	DefaultEnvironment     = "development"

	readHeaderTimeout = 10 * time.Second
)

// Config selects the profilers to run.
type Config struct {
	PprofEnabled bool `env:"ENABLE_PROFILING" yaml:"pprof_enabled"`
	// PprofAddress should stay on loopback; the endpoint is unauthenticated.
	PprofAddress     string `env:"PPROF_ADDRESS"               yaml:"pprof_address"`
	PyroscopeEnabled bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"pyroscope_enabled"`
	PyroscopeServer  string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_server"`
	Environment      string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.PprofAddress == "" {
		c.PprofAddress = DefaultPprofAddress
	}
	if c.PyroscopeServer == "" {
		c.PyroscopeServer = DefaultPyroscopeServer
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
}

// Profiler holds whatever Start launched. A nil *Profiler is valid.
type Profiler struct {
	pprofServer *http.Server
	pprofAddr   string
	pyroscope   *pyroscope.Profiler
}

// Start launches the enabled profilers for the named service.
func Start(cfg Config, service, version string, log logger.Logger) (*Profiler, error) {
	cfg.SetDefaults()
	p := &Profiler{}

	if cfg.PprofEnabled {
		if err := p.startPprof(cfg.PprofAddress, log); err != nil {
			return nil, err
		}
	}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "north-cloud." + service,
			ServerAddress:   cfg.PyroscopeServer,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
			},
			Tags: map[string]string{
				"environment": cfg.Environment,
				"version":     version,
				"hostname":    hostname(),
				"go_version":  runtime.Version(),
			},
		})
		if err != nil {
			_ = p.Stop(context.Background())
			return nil, fmt.Errorf("start pyroscope: %w", err)
		}
		p.pyroscope = profiler
		log.Info("Continuous profiling started",
			logger.String("server", cfg.PyroscopeServer),
			logger.String("environment", cfg.Environment),
		)
	}

	return p, nil
}

func (p *Profiler) startPprof(addr string, log logger.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen pprof %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	p.pprofAddr = listener.Addr().String()
	p.pprofServer = &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		if serveErr := p.pprofServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(serveErr))
		}
	}()

	log.Info("pprof server started", logger.String("address", p.pprofAddr))
	return nil
}

// PprofAddr returns the bound pprof address, or "" when pprof is off.
func (p *Profiler) PprofAddr() string {
	if p == nil {
		return ""
	}
	return p.pprofAddr
}

// Stop shuts down every running profiler.
func (p *Profiler) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprofServer != nil {
		errs = append(errs, p.pprofServer.Shutdown(ctx))
	}
	if p.pyroscope != nil {
		errs = append(errs, p.pyroscope.Stop())
	}
	return errors.Join(errs...)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
