package request

import "net/http"

// ClientWriter wraps a http.ResponseWriter and records the status code that
// was written to it, as the standard writer does not expose it afterwards.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code that was written.
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
	}
}

// WriteHeader records the status code and forwards it to the wrapped writer.
func (c *ClientWriter) WriteHeader(statusCode int) {
	c.statusCode = statusCode
	c.ResponseWriter.WriteHeader(statusCode)
}

// Write defaults the status code to 200 if WriteHeader was never called,
// mirroring the behaviour of the wrapped writer.
func (c *ClientWriter) Write(b []byte) (int, error) {
	if c.statusCode == 0 {
		c.statusCode = http.StatusOK
	}
	return c.ResponseWriter.Write(b)
}

// StatusCode returns the status code that was written.
func (c *ClientWriter) StatusCode() int {
	if c.statusCode == 0 {
		return http.StatusOK
	}
	return c.statusCode
}
