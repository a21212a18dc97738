// Package protocol implements the JSON request/response exchange shared by
// the WebAssembly entrypoints.
package protocol

import (
	"bytes"
	"context"
	"errors"

	"github.com/sandrolain/gochurch"
	"github.com/sandrolain/gochurch/pkg/engine"
	"github.com/sandrolain/gochurch/pkg/types"
)

// Request asks for source to be evaluated and optionally peeked.
type Request struct {
	Source string `json:"source"`
	Peek   string `json:"peek"`
}

// Response carries either a result or an error. Output holds the lines
// printed by peek statements, including those printed before a failure.
type Response struct {
	Result string `json:"result,omitempty"`
	Peek   string `json:"peek,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// Failed reports whether r describes an error.
func (r Response) Failed() bool {
	return r.Error != ""
}

// ErrorResponse converts err, keeping its code when it is a *types.Error.
func ErrorResponse(err error, output string) Response {
	r := Response{Error: err.Error(), Output: output}
	var te *types.Error
	if errors.As(err, &te) {
		r.Code = string(te.Code)
	}
	return r
}

// Handle evaluates req. Peek output goes to the response only.
func Handle(ctx context.Context, req Request, opts ...engine.Option) Response {
	kind, peek := types.PeekNumber, false
	if req.Peek != "" {
		var ok bool
		if kind, ok = types.ParsePeekKind(req.Peek); !ok {
			return Response{Error: "unknown peek kind: " + req.Peek}
		}
		peek = true
	}

	var out bytes.Buffer
	opts = append(opts, engine.WithPeekOutput(&out))
	result, err := gochurch.EvalWithContext(ctx, req.Source, opts...)
	if err != nil {
		return ErrorResponse(err, out.String())
	}

	resp := Response{Result: result.String(), Output: out.String()}
	if peek {
		resp.Peek = gochurch.Peek(result, kind)
	}
	return resp
}
