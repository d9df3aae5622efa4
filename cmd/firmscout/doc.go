// Package firmscout provides the command-line interface for the firmscout
// tool. It configures subcommands (scan, recon, blobs, nvram, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/firmscout/firmscout/cmd/firmscout"
//	func main() { firmscout.Execute() }
package firmscout
