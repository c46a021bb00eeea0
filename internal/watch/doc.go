// SPDX-License-Identifier: MPL-2.0

// Package watch reports changes below a project directory.
//
// A Watcher registers every non-ignored directory with fsnotify, filters
// events through doublestar patterns and calls OnChange once per quiet
// period with the sorted set of changed paths.
package watch
