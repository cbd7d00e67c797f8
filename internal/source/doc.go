// Package source acquires the raw payload text for a selection prompt.
//
// Sources are tried in order and the first non-empty text wins:
//
//  1. the BZ_PAYLOAD environment variable
//  2. a file path given as the first command-line argument
//  3. standard input, only when it is not a terminal
//
// Read failures are swallowed and treated as "not available".
//
//	text := source.Acquire(ctx, log, source.Defaults(path)...)
package source
