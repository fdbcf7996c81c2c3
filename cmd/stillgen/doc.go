// Command stillgen turns on-set camera stills into graded, metadata-burned
// deliverables. The root command runs a processing pass over the input
// folder; subcommands cover configuration management and dependency checks.
package main
