// Package config loads the collector configuration file: HTTP listen
// address, upload size cap, storage locations (image directory + SQLite
// fix log) and logging. Load(path) reads the YAML file, applies defaults
// (":10001", 8 MiB, "images", "fieldlink.db") and validates required
// fields. The `agent:` key in a shared file is ignored.
package config
