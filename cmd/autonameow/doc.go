// Command autonameow renames files from their metadata according to the
// rules in its configuration file.
//
// Running it with paths applies the best matching rule to every file.
// Subcommands manage the configuration (config init|validate|show), list
// the parsed rules (rules), show past renames (history) and check the
// environment (doctor).
package main
