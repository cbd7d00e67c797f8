// Package commands implements the select command line.
package commands
