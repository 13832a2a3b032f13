// Package main hosts the clean-folder CLI entrypoint and command graph.
//
// The root command cleans the directory given as its only argument and prints
// the report on stdout; logs go to stderr. Subcommands scaffold and validate
// configuration and read the run journal. Configuration resolution and logger
// setup live in commandContext so subcommands stay declarative.
package main
