// Package confloader loads memkv configuration with koanf.
//
// Sources, lowest to highest priority:
//
//  1. Default values (the target struct as passed to Load)
//  2. YAML configuration file
//  3. Environment variables (MEMKV_ prefix)
//  4. Explicit maps loaded with LoadMap
//
// Watcher notifies callers when the configuration file changes on disk.
package confloader
