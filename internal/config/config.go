package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for irisboot.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Instance  InstanceConfig  `mapstructure:"instance"`
	Sequence  SequenceConfig  `mapstructure:"sequence"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	ServiceName  string `mapstructure:"service_name"`
	LogLevel     string `mapstructure:"log_level"`
	// BootLog is an optional file that receives a copy of every log line, so
	// entrypoint logs survive the exec handoff. Empty disables the copy.
	BootLog string `mapstructure:"boot_log"`
}

// InstanceConfig describes the managed IRIS instance and the fixed paths the
// sequence works with.
type InstanceConfig struct {
	Name         string        `mapstructure:"name"`
	Bin          string        `mapstructure:"bin"`
	MainProcess  string        `mapstructure:"main_process"`
	ScriptPath   string        `mapstructure:"script_path"`
	Transcript   string        `mapstructure:"transcript"`
	ProbeHost    string        `mapstructure:"probe_host"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	Ports        []PortConfig  `mapstructure:"ports"`
}

// PortConfig names one exposed port for deep-health probing.
type PortConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
}

// SequenceConfig carries the sequence policy knobs. Zero timeouts mean an
// unbounded wait.
type SequenceConfig struct {
	AbortOnInitFailure bool          `mapstructure:"abort_on_init_failure"`
	StartTimeout       time.Duration `mapstructure:"start_timeout"`
	InitTimeout        time.Duration `mapstructure:"init_timeout"`
	StopTimeout        time.Duration `mapstructure:"stop_timeout"`
	ResultPath         string        `mapstructure:"result_path"`
}

// Load reads config from the optional YAML file at path, then overlays
// environment variables with the IRISBOOT_ prefix (e.g. IRISBOOT_INSTANCE_NAME).
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("IRISBOOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Telemetry is off by default: the common deployment has no collector
	// reachable from inside the database container.
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", true)
	v.SetDefault("telemetry.service_name", "irisboot")
	v.SetDefault("telemetry.log_level", "info")
	v.SetDefault("telemetry.boot_log", "")

	v.SetDefault("instance.name", "IRIS")
	v.SetDefault("instance.bin", "iris")
	v.SetDefault("instance.main_process", "/iris-main")
	v.SetDefault("instance.script_path", "/opt/irisapp/iris.script")
	v.SetDefault("instance.transcript", "/opt/irisapp/logs/import.log")
	v.SetDefault("instance.probe_host", "localhost")
	v.SetDefault("instance.probe_timeout", 3*time.Second)
	v.SetDefault("instance.ports", []map[string]any{
		{"name": "superserver", "port": 1972},
		{"name": "webserver", "port": 52773},
	})

	v.SetDefault("sequence.abort_on_init_failure", false)
	v.SetDefault("sequence.start_timeout", time.Duration(0))
	v.SetDefault("sequence.init_timeout", time.Duration(0))
	v.SetDefault("sequence.stop_timeout", time.Duration(0))
	v.SetDefault("sequence.result_path", "/opt/irisapp/state/last-run.json")
}
