// Package engine walks extracted firmware trees and orchestrates the string
// recovery, classification, and blob heuristics across a worker pool.
package engine
