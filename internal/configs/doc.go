// Package configs manages Totara's project configuration: the TOML file
// under .totara/ that selects the remote secret store, target repository,
// and definition file, plus discovery of the project root.
package configs
