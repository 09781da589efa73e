package util

import (
	"bytes"
	"io"
	"os"
)

// EmptyReader returns an io.Reader which is empty and immediately closed.
func EmptyReader() io.Reader {
	return io.NopCloser(bytes.NewReader(nil))
}

// StdinPipe will return stdin if it's available, otherwise it will return
// EmptyReader()
func StdinPipe() io.Reader {
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return os.Stdin
	}
	return EmptyReader()
}

// ReadInput reads the file at path, or stdin when path is "-".
func ReadInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(StdinPipe())
	}
	return os.ReadFile(path)
}
