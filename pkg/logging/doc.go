// Package logging configures the process-wide slog logger shared by the
// agent and collector binaries: a JSON handler writing to stdout or to a
// size-rotated file (lumberjack), with a LevelVar so the level can be
// adjusted at runtime from a config reload.
package logging
