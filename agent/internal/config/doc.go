// Package config loads and watches the agent configuration file.
//
// Top-level types:
//   - Config{Agent} — full config tree parsed from YAML
//   - AgentConfig — cycle_interval plus the uplink, camera, gps and log
//     sections
//   - UplinkConfig — image_url, telemetry_url, delivery timeout and the
//     bounded startup association probe (attempts × interval)
//   - CameraConfig — driver type (still|snapshot), capture command or
//     snapshot URL, capture timeout
//   - GPSConfig — serial device, baud rate, read timeout and the minimum
//     sentence length below which lines are dropped as noise
//
// Load(path) reads the YAML file, applies defaults (3s cycle, 10s delivery
// timeout, 40×500ms association, 9600 baud, threshold 3), then validates
// required fields and enums. The loaded Config is immutable: it is built
// once at startup and handed to components, never mutated.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create
// pattern used by atomic-save editors by re-adding the watch after a rename
// event. The agent applies only the log level from a reload.
package config
