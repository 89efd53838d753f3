package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fieldlink/fieldlink/pkg/logging"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultCycleInterval     = 3 * time.Second
	DefaultMinLineLength     = 3
	DefaultDeliveryTimeout   = 10 * time.Second
	DefaultAssociateAttempts = 40
	DefaultAssociateInterval = 500 * time.Millisecond
	DefaultBaudRate          = 9600
	DefaultReadTimeout       = 50 * time.Millisecond
	DefaultCaptureTimeout    = 15 * time.Second
)

// Config is the top-level agent configuration.
// Fields map 1:1 to agent.example.yaml.
type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig holds all agent-side settings. It is constructed once at
// startup and never mutated afterwards; components receive it by value.
type AgentConfig struct {
	// CycleInterval is the idle time between uplink cycles.
	CycleInterval time.Duration `yaml:"cycle_interval"`

	Uplink UplinkConfig   `yaml:"uplink"`
	Camera CameraConfig   `yaml:"camera"`
	GPS    GPSConfig      `yaml:"gps"`
	Log    logging.Config `yaml:"log"`
}

// UplinkConfig describes the two collector endpoints and delivery behaviour.
type UplinkConfig struct {
	// ImageURL receives JPEG frames (content-type image/jpeg).
	ImageURL string `yaml:"image_url"`

	// TelemetryURL receives GPS sentences (content-type text/plain).
	TelemetryURL string `yaml:"telemetry_url"`

	// Timeout bounds a single delivery attempt, connect included.
	Timeout time.Duration `yaml:"timeout"`

	// AssociateAttempts is how many reachability probes are made at startup
	// before the process gives up and exits for the supervisor to restart it.
	AssociateAttempts int `yaml:"associate_attempts"`

	// AssociateInterval is the fixed spacing between probes.
	AssociateInterval time.Duration `yaml:"associate_interval"`
}

// CameraConfig selects and configures the capture driver.
type CameraConfig struct {
	// Type is the driver type: still | snapshot.
	Type string `yaml:"type"`

	// Command and Args configure the "still" driver: a capture program
	// expected to write one JPEG frame to stdout (e.g. libcamera-still).
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`

	// SnapshotURL configures the "snapshot" driver: an HTTP endpoint
	// returning one JPEG frame per GET (e.g. an IP camera snapshot URL).
	SnapshotURL string `yaml:"snapshot_url"`

	// Timeout bounds a single capture.
	Timeout time.Duration `yaml:"timeout"`
}

// GPSConfig describes the serial-attached location receiver.
type GPSConfig struct {
	// Device is the serial device path, e.g. /dev/ttyAMA0.
	Device string `yaml:"device"`

	// BaudRate is the receiver's fixed baud rate (default 9600).
	BaudRate int `yaml:"baud_rate"`

	// ReadTimeout is the serial read timeout used to detect that the
	// receive buffer is drained. It must stay small so polling never
	// stalls the cycle.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// MinLineLength is the noise threshold: only sentences whose trimmed
	// length is strictly greater than this are uplinked.
	MinLineLength int `yaml:"min_line_length"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			CycleInterval: DefaultCycleInterval,
			Uplink: UplinkConfig{
				Timeout:           DefaultDeliveryTimeout,
				AssociateAttempts: DefaultAssociateAttempts,
				AssociateInterval: DefaultAssociateInterval,
			},
			Camera: CameraConfig{
				Timeout: DefaultCaptureTimeout,
			},
			GPS: GPSConfig{
				BaudRate:      DefaultBaudRate,
				ReadTimeout:   DefaultReadTimeout,
				MinLineLength: DefaultMinLineLength,
			},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	a := cfg.Agent

	if a.CycleInterval <= 0 {
		return fmt.Errorf("agent.cycle_interval must be positive")
	}

	if a.Uplink.ImageURL == "" {
		return fmt.Errorf("agent.uplink.image_url is required")
	}
	if a.Uplink.TelemetryURL == "" {
		return fmt.Errorf("agent.uplink.telemetry_url is required")
	}
	for _, u := range []string{a.Uplink.ImageURL, a.Uplink.TelemetryURL} {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("agent.uplink: %q is not an absolute URL", u)
		}
	}
	if a.Uplink.Timeout <= 0 {
		return fmt.Errorf("agent.uplink.timeout must be positive")
	}
	if a.Uplink.AssociateAttempts <= 0 {
		return fmt.Errorf("agent.uplink.associate_attempts must be positive")
	}
	if a.Uplink.AssociateInterval <= 0 {
		return fmt.Errorf("agent.uplink.associate_interval must be positive")
	}

	switch a.Camera.Type {
	case "still":
		if a.Camera.Command == "" {
			return fmt.Errorf("agent.camera: type \"still\" requires command")
		}
	case "snapshot":
		if a.Camera.SnapshotURL == "" {
			return fmt.Errorf("agent.camera: type \"snapshot\" requires snapshot_url")
		}
	case "":
		return fmt.Errorf("agent.camera.type is required")
	default:
		return fmt.Errorf("agent.camera: unknown type %q", a.Camera.Type)
	}
	if a.Camera.Timeout <= 0 {
		return fmt.Errorf("agent.camera.timeout must be positive")
	}

	if a.GPS.Device == "" {
		return fmt.Errorf("agent.gps.device is required")
	}
	if a.GPS.BaudRate <= 0 {
		return fmt.Errorf("agent.gps.baud_rate must be positive")
	}
	if a.GPS.ReadTimeout <= 0 {
		return fmt.Errorf("agent.gps.read_timeout must be positive")
	}
	if a.GPS.MinLineLength < 0 {
		return fmt.Errorf("agent.gps.min_line_length must not be negative")
	}

	return nil
}
