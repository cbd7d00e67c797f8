package source

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joeshaw/envdecode"
	"golang.org/x/term"

	"github.com/bash-zoo/select/internal/logger"
)

// PayloadEnv is the environment variable that carries the payload directly.
const PayloadEnv = "BZ_PAYLOAD"

// Source yields raw payload text. An empty string means "nothing here".
type Source interface {
	Name() string
	Read(ctx context.Context) (string, error)
}

// Acquire returns the text of the first source that yields something.
// Source errors are logged and skipped; an empty result is left for the
// parser to reject.
func Acquire(ctx context.Context, log logger.Logger, sources ...Source) string {
	if log == nil {
		log = logger.NewSilentLogger()
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return ""
		}

		text, err := src.Read(ctx)
		if err != nil {
			log.Debug("payload source unavailable", logger.F("source", src.Name()), logger.Err(err))
			continue
		}
		if text == "" {
			log.Debug("payload source empty", logger.F("source", src.Name()))
			continue
		}

		log.Debug("payload acquired", logger.F("source", src.Name()), logger.F("bytes", len(text)))
		return text
	}

	return ""
}

// Defaults returns the standard chain: env, file argument, non-interactive stdin.
func Defaults(path string) []Source {
	return []Source{
		Env(),
		File(path),
		Stdin(os.Stdin),
	}
}

// envPayload is decoded by envdecode.
type envPayload struct {
	Payload string `env:"BZ_PAYLOAD"`
}

type envSource struct{}

// Env reads the payload from BZ_PAYLOAD.
func Env() Source {
	return envSource{}
}

func (envSource) Name() string { return "env:" + PayloadEnv }

func (envSource) Read(context.Context) (string, error) {
	var p envPayload
	if err := envdecode.Decode(&p); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return "", nil
		}
		return "", errors.Wrap(err, "decoding environment")
	}
	return p.Payload, nil
}

type fileSource struct {
	path     string
	readFile func(string) ([]byte, error)
}

// File reads the payload from path. An empty path yields nothing.
func File(path string) Source {
	return &fileSource{path: path, readFile: os.ReadFile}
}

func (f *fileSource) Name() string { return "file:" + f.path }

func (f *fileSource) Read(context.Context) (string, error) {
	if f.path == "" {
		return "", nil
	}
	data, err := f.readFile(f.path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", f.path)
	}
	return string(data), nil
}

// FileDescriptor is implemented by *os.File.
type FileDescriptor interface {
	io.Reader
	Fd() uintptr
}

type stdinSource struct {
	in         io.Reader
	isTerminal func() bool
}

// Stdin reads all of in, but only when it is not an interactive terminal.
// Reading a terminal here would block on keystrokes meant for the prompt.
func Stdin(in FileDescriptor) Source {
	return &stdinSource{
		in: in,
		isTerminal: func() bool {
			return term.IsTerminal(int(in.Fd()))
		},
	}
}

// Reader wraps a plain reader with an explicit terminal flag.
func Reader(in io.Reader, isTerminal bool) Source {
	return &stdinSource{
		in:         in,
		isTerminal: func() bool { return isTerminal },
	}
}

func (s *stdinSource) Name() string { return "stdin" }

func (s *stdinSource) Read(context.Context) (string, error) {
	if s.in == nil || s.isTerminal() {
		return "", nil
	}
	data, err := io.ReadAll(s.in)
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}
	return string(data), nil
}
