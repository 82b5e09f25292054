package engine

import (
	"context"
	"errors"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
)

type executed struct {
	text     string
	bindings []any
}

// recorder is a ConnectionProvider that records statements instead of sending them
type recorder struct {
	executed []executed

	gets             int
	cursorsClosed    int
	connectionsClose int

	getErr     error
	executeErr error
	closeErr   error
}

func (r *recorder) Get(ctx context.Context) (client.Connection, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.gets++
	return &recordingConnection{r: r}, nil
}

// released reports whether every acquired cursor and connection was closed
func (r *recorder) released() bool {
	return r.gets == r.cursorsClosed && r.gets == r.connectionsClose
}

func (r *recorder) statements() []string {
	texts := make([]string, 0, len(r.executed))
	for _, e := range r.executed {
		texts = append(texts, e.text)
	}
	return texts
}

type recordingConnection struct {
	r *recorder
}

func (c *recordingConnection) Cursor() client.Cursor {
	return &recordingCursor{r: c.r}
}

func (c *recordingConnection) Close() error {
	c.r.connectionsClose++
	return c.r.closeErr
}

type recordingCursor struct {
	r *recorder
}

func (c *recordingCursor) Execute(ctx context.Context, statement string, bindings ...any) error {
	if c.r.executeErr != nil {
		return &client.ExecutionError{Statement: statement, Err: c.r.executeErr}
	}
	c.r.executed = append(c.r.executed, executed{text: statement, bindings: bindings})
	return nil
}

func (c *recordingCursor) Close() error {
	c.r.cursorsClosed++
	return nil
}

func fixedSuffix(s string) SuffixGenerator {
	return func(length int) (string, error) {
		return s[:length], nil
	}
}

var errWarehouse = errors.New("SQL compilation error: Object 'FF' already exists.")
