// Package rules defines the declarative rule table that drives command
// validation and run-time estimation: recognized and ignorable command names,
// the allowed value sets and numeric ranges per argument, the script-kind
// suffixes and the hardware/camera timing constants.
//
// The table is configuration, not code. Default returns the built-in UCoMP
// table; Load reads an HCL or YAML file and merges it over the defaults.
package rules
