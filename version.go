package scals

// Version is the library release version, surfaced by the CLI.
const Version = "0.1.0"
