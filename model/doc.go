// Package model defines stable boundary types for the CLI and daemon.
//
// These structs are the only types intended for direct JSON serialization
// by consumers. Converters project differ, corpus and module values onto
// them; the projection never changes envelope bytes or entry names.
package model
