package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/projectdiscovery/gcache"
	"github.com/projectdiscovery/gologger"

	"github.com/espressojuice/cloudmonitor/pkg/api"
	"github.com/espressojuice/cloudmonitor/pkg/gatus"
	"github.com/espressojuice/cloudmonitor/pkg/scan"
	"github.com/espressojuice/cloudmonitor/pkg/store"
)

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	scanner *scan.Scanner
	store   *store.Store

	// seenDevices suppresses repeated "new device" log lines across
	// periodic scans. Entries expire so devices that go away and come
	// back are reported again.
	seenDevices gcache.Cache[string, struct{}]
}

// NewRunner creates a new runner instance
func NewRunner(options *Options) (*Runner, error) {
	scanner := scan.NewScanner()
	if options.Concurrency > 0 {
		scanner.Concurrency = options.Concurrency
	}
	if options.PingTimeout > 0 {
		scanner.PingTimeout = time.Duration(options.PingTimeout) * time.Second
	}
	if options.PortTimeout > 0 {
		scanner.PortTimeout = time.Duration(options.PortTimeout) * time.Second
	}

	st := store.New(options.MonitoredFile, options.LocationsFile)
	if err := st.Load(); err != nil {
		gologger.Warning().Msgf("error loading monitored devices: %v", err)
	}

	return &Runner{
		options: options,
		scanner: scanner,
		store:   st,
		seenDevices: gcache.New[string, struct{}](1024).
			LRU().
			Expiration(24 * time.Hour).
			Build(),
	}, nil
}

// Run starts the discovery loop and the http api server
func (r *Runner) Run(ctx context.Context) error {
	// Regenerate the gatus config on startup so monitoring survives
	// container restarts even before the first scan completes.
	if err := gatus.Write(r.options.GatusConfigPath, gatus.Generate(r.store.Devices(), r.options.Location)); err != nil {
		gologger.Warning().Msgf("error writing gatus config: %v", err)
	}

	if !r.options.DisableAPI {
		server := &http.Server{
			Addr:    r.options.ListenAddr,
			Handler: api.NewServer(r.scanner, r.store, r.options.GatusConfigPath, r.options.Location).Handler(),
		}
		go func() {
			gologger.Info().Msgf("http api listening on %s", r.options.ListenAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				gologger.Error().Msgf("http api server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				gologger.Warning().Msgf("error shutting down http api server: %v", err)
			}
		}()
	}

	subnets := []string(r.options.Subnets)
	if len(subnets) == 0 {
		subnets = scan.DetectLocalSubnets()
		gologger.Info().Msgf("auto-detected subnets: %s", strings.Join(subnets, ", "))
	}

	if r.options.Once {
		devices, err := r.scan(ctx, subnets)
		if err != nil {
			return err
		}
		return r.writeResults(devices)
	}

	// Interval 0 disables periodic rescans: one pass, then the process
	// stays up serving the API until cancelled.
	if r.options.Interval <= 0 {
		if _, err := r.scan(ctx, subnets); err != nil {
			gologger.Error().Msgf("scan failed: %v", err)
		}
		<-ctx.Done()
		return nil
	}

	interval := time.Duration(r.options.Interval) * time.Minute
	gologger.Info().Msgf("scanning every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.scan(ctx, subnets); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			gologger.Error().Msgf("scan failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// scan runs a single discovery pass and logs what was found
func (r *Runner) scan(ctx context.Context, subnets []string) ([]scan.Device, error) {
	started := time.Now()
	gologger.Info().Msgf("scanning %d subnet(s)...", len(subnets))

	devices, err := r.scanner.RunScan(ctx, subnets)
	if err != nil {
		return nil, err
	}

	var cameras int
	for _, device := range devices {
		if device.DeviceType == scan.DeviceTypeCamera {
			cameras++
		}
		key := device.IP + "/" + device.MAC
		if r.seenDevices.Has(key) {
			continue
		}
		r.seenDevices.Set(key, struct{}{})

		label := device.Manufacturer
		if label == "" {
			label = "unknown"
		}
		switch device.DeviceType {
		case scan.DeviceTypeCamera:
			gologger.Info().Msgf("found %s [%s] at %s", au.Green("camera").String(), label, device.IP)
		case scan.DeviceTypeInfrastructure:
			gologger.Info().Msgf("found %s [%s] at %s", au.Blue("infrastructure").String(), label, device.IP)
		default:
			gologger.Verbose().Msgf("found device at %s", device.IP)
		}
	}

	gologger.Info().Msgf("scan finished in %s: %d device(s), %d camera(s)", time.Since(started).Round(time.Millisecond), len(devices), cameras)
	return devices, nil
}

// writeResults writes scan results as JSON to the output file or stdout
func (r *Runner) writeResults(devices []scan.Device) error {
	data, err := json.MarshalIndent(devices, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if r.options.Output != "" {
		if err := os.WriteFile(r.options.Output, data, 0644); err != nil {
			return fmt.Errorf("failed to write results to %s: %w", r.options.Output, err)
		}
		gologger.Info().Msgf("results written to %s", r.options.Output)
		return nil
	}
	gologger.Silent().Msgf("%s\n", data)
	return nil
}

// Close the runner instance
func (r *Runner) Close() {}
