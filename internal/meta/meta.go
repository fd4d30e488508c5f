package meta

// CLIName is the binary name used in help text, config paths and
// environment variable prefixes.
const CLIName = "gridctl"
