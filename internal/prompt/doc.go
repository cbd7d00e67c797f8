// Package prompt runs an interactive multi-select prompt.
//
// # Backends
//
// A Prompter takes a Config (title, choices, hint, visible row limit and
// the input/output streams) and returns the chosen values in list order,
// or ErrCancelled. Two backends are provided and registered by name:
//
//   - tea: a bubbletea list with arrow keys, space to toggle and enter to confirm
//   - plain: a numbered list answered with one line of input
//
// The Registry resolves a backend from an ordered list of names, so the
// first usable one wins:
//
//	reg := prompt.DefaultRegistry()
//	backend, err := reg.Resolve("tea", "plain")
//	if errors.Is(err, prompt.ErrBackendUnavailable) {
//	    // report and exit 1
//	}
//	names, err := backend.Run(ctx, prompt.NewConfig(req, os.Stdin, os.Stderr))
//
// # Rendering
//
// Backends render to Config.Out, which the CLI binds to stderr so stdout
// carries only the selected names.
package prompt
