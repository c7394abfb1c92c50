// Package options defines the tagged Value type used for configuration entries
// (string scalars, nested mappings, lists) together with the bracket-notation
// query parser that produces them from connection strings.
package options
