// SPDX-License-Identifier: MPL-2.0

// Package config loads editwheel settings with Viper, using CUE as the file
// format.
//
// The file is read from --config when given, otherwise from
// config.cue in the user configuration directory ($XDG_CONFIG_HOME/editwheel
// on Linux, ~/Library/Application Support/editwheel on macOS,
// %APPDATA%\editwheel on Windows), otherwise from ./config.cue. It is
// validated against the embedded config_schema.cue. EDITWHEEL_* environment
// variables override file values, e.g. EDITWHEEL_UI_VERBOSE=true.
package config
