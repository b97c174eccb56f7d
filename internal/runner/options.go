package runner

import (
	"os"
	"strconv"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"

	"github.com/espressojuice/cloudmonitor/pkg/version"
)

var au *aurora.Aurora

var (
	GatusConfigPathEnv = envutil.GetEnvOrDefault("GATUS_CONFIG_PATH", "/config/gatus/config.yaml")
	MonitoredFileEnv   = envutil.GetEnvOrDefault("MONITORED_FILE", "/config/monitored.json")
	LocationsFileEnv   = envutil.GetEnvOrDefault("LOCATIONS_FILE", "/config/locations.json")
	LocationEnv        = envutil.GetEnvOrDefault("LOCATION", "edge")
	ScanIntervalEnv    = envutil.GetEnvOrDefault("SCAN_INTERVAL_MINUTES", "60")
)

// Options contains the configuration options for tuning the discovery process.
type Options struct {
	Subnets goflags.StringSlice

	Interval    int
	Once        bool
	Output      string
	Concurrency int
	PingTimeout int
	PortTimeout int

	ListenAddr string
	DisableAPI bool

	GatusConfigPath string
	MonitoredFile   string
	LocationsFile   string
	Location        string

	Verbose bool
	Silent  bool
	NoColor bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`cloudmonitor-scanner discovers cameras and network devices on local subnets and keeps a gatus monitoring config in sync`)

	defaultInterval, err := strconv.Atoi(ScanIntervalEnv)
	if err != nil || defaultInterval <= 0 {
		defaultInterval = 60
	}

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&options.Subnets, "subnet", "s", nil, "subnet to scan in CIDR notation (comma separated, auto-detected when empty)", goflags.NormalizedStringSliceOptions),
	)

	flagSet.CreateGroup("scan", "Scan",
		flagSet.IntVarP(&options.Interval, "interval", "iv", defaultInterval, "minutes between periodic scans"),
		flagSet.BoolVar(&options.Once, "once", false, "run a single scan and exit"),
		flagSet.StringVarP(&options.Output, "output", "o", "", "file to write scan results in JSON format"),
		flagSet.IntVarP(&options.Concurrency, "concurrency", "c", 50, "maximum number of hosts probed in parallel"),
		flagSet.IntVarP(&options.PingTimeout, "ping-timeout", "pt", 1, "icmp probe timeout in seconds"),
		flagSet.IntVarP(&options.PortTimeout, "port-timeout", "ct", 1, "tcp connect timeout in seconds"),
	)

	flagSet.CreateGroup("server", "Server",
		flagSet.StringVarP(&options.ListenAddr, "listen", "l", ":5000", "address for the http api server"),
		flagSet.BoolVarP(&options.DisableAPI, "disable-api", "da", false, "disable the http api server"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVarP(&options.GatusConfigPath, "gatus-config", "gc", GatusConfigPathEnv, "path to the generated gatus configuration file"),
		flagSet.StringVarP(&options.MonitoredFile, "monitored-file", "mf", MonitoredFileEnv, "path to the monitored devices file"),
		flagSet.StringVarP(&options.LocationsFile, "locations-file", "lf", LocationsFileEnv, "path to the locations file"),
		flagSet.StringVar(&options.Location, "location", LocationEnv, "default location assigned to monitored devices"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	// configure aurora for logging
	au = aurora.New(aurora.WithColors(true))

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
