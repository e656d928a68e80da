package logging

import (
	"bytes"
	"io"
)

// redactWriter is an io.Writer that redacts sensitive information from logs.
type redactWriter struct {
	Writer  io.Writer
	Secrets []string
}

// Write implements the io.Writer interface for redactWriter.
func (rw *redactWriter) Write(p []byte) (n int, err error) {
	return rw.Writer.Write(redactSecrets(p, rw.Secrets))
}

// redactSecrets replaces sensitive information in the log data with "[REDACTED]".
func redactSecrets(data []byte, secrets []string) []byte {
	for _, secret := range secrets {
		data = bytes.ReplaceAll(data, []byte(secret), []byte("[REDACTED]"))
	}
	return data
}
