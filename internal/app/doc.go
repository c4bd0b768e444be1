// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the validation lifecycle (discovery, parallel
// validation, reporting and watch mode), decoupled from any specific
// entrypoint like a CLI.
package app
