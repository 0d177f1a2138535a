// Package config loads regionfx settings from TOML.
//
// Lookup order is an explicit path, then ~/.config/regionfx/config.toml,
// then ./regionfx.toml. A missing file is not an error: defaults apply and
// Load reports exists=false. Environment variables REGIONFX_FFMPEG,
// REGIONFX_FFPROBE and REGIONFX_LOG_LEVEL override the file.
package config
