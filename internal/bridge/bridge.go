// Package bridge lets programs outside the terminal UI read and mutate the
// drawing. Requests travel as messages into the UI's event loop and are
// answered from there, so the surface is only ever touched by one goroutine.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"cadterm/internal/geom"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type Op string

const (
	OpGetShapes Op = "get_shapes"
	OpAdd       Op = "add"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
	OpBatchAdd  Op = "batch_add"
)

var (
	ErrUnknownOp = errors.New("unknown op")
	ErrNotFound  = errors.New("shape not found")
	ErrInvalid   = errors.New("invalid shape")
)

type Request struct {
	ID      string       `json:"id"`
	Op      Op           `json:"op"`
	Shape   *geom.Shape  `json:"shape,omitempty"`
	Shapes  []geom.Shape `json:"shapes,omitempty"`
	ShapeID int          `json:"shapeId,omitempty"`
}

type Response struct {
	ID     string       `json:"id"`
	OK     bool         `json:"ok"`
	Shape  *geom.Shape  `json:"shape,omitempty"`
	Shapes []geom.Shape `json:"shapes,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Target is the surface side of the bridge.
type Target interface {
	AllShapes() []geom.Shape
	ExternalAdd(geom.Shape) (geom.Shape, bool)
	ExternalUpdate(geom.Shape) bool
	ExternalDelete(id int) bool
	ExternalBatch([]geom.Shape) []geom.Shape
}

// Apply executes req against t. It must run on the goroutine that owns t.
func Apply(t Target, req Request) Response {
	resp := Response{ID: req.ID}
	fail := func(err error) Response {
		resp.Error = err.Error()
		return resp
	}
	switch req.Op {
	case OpGetShapes:
		resp.Shapes = t.AllShapes()
	case OpAdd:
		if req.Shape == nil {
			return fail(ErrInvalid)
		}
		sh, ok := t.ExternalAdd(*req.Shape)
		if !ok {
			return fail(ErrInvalid)
		}
		resp.Shape = &sh
	case OpUpdate:
		if req.Shape == nil {
			return fail(ErrInvalid)
		}
		if !t.ExternalUpdate(*req.Shape) {
			return fail(fmt.Errorf("%w: id %d", ErrNotFound, req.Shape.ID))
		}
		sh := req.Shape.Clone()
		resp.Shape = &sh
	case OpDelete:
		if !t.ExternalDelete(req.ShapeID) {
			return fail(fmt.Errorf("%w: id %d", ErrNotFound, req.ShapeID))
		}
	case OpBatchAdd:
		resp.Shapes = t.ExternalBatch(req.Shapes)
	default:
		return fail(fmt.Errorf("%w: %q", ErrUnknownOp, req.Op))
	}
	resp.OK = true
	return resp
}

// Sender delivers messages into the UI event loop; *tea.Program is one.
type Sender interface {
	Send(msg tea.Msg)
}

// Call is the message carrying a request into the event loop. The receiver
// answers it exactly once with Reply.
type Call struct {
	Request
	reply chan Response
}

func (c Call) Reply(r Response) {
	select {
	case c.reply <- r:
	default:
	}
}

// Do sends req through s and waits for the answer or for ctx to end.
// An empty request id is filled with a fresh UUID.
func Do(ctx context.Context, s Sender, req Request) (Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	call := Call{Request: req, reply: make(chan Response, 1)}
	s.Send(call)
	select {
	case resp := <-call.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{ID: req.ID}, fmt.Errorf("request %s: %w", req.ID, ctx.Err())
	}
}
