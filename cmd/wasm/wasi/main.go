//go:build wasip1

// Command gochurch-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "source": "<program>", "peek": "num" | "bool" | "list" | "" }
//	stdout: { "result": "<function>", "peek": "5", "output": "..." }  on success
//	        { "error": "<message>", "code": "C1001", "output": "..." } on failure (exit code 1)
//
// "output" holds the lines printed by peek statements. Settings come from
// the file named by GOCHURCH_CONFIG and GOCHURCH_* variables.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o gochurch.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"source":"SUCC (\\f.\\x.x)","peek":"num"}' | wasmtime gochurch.wasm
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sandrolain/gochurch"
	"github.com/sandrolain/gochurch/cmd/wasm/internal/protocol"
	"github.com/sandrolain/gochurch/pkg/config"
)

func writeResponse(r protocol.Response) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	if r.Failed() {
		os.Exit(1)
	}
	os.Exit(0)
}

func main() {
	var req protocol.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(protocol.Response{Error: "invalid request JSON: " + err.Error()})
	}

	cfg, err := config.Resolve()
	if err != nil {
		writeResponse(protocol.ErrorResponse(err, ""))
	}

	writeResponse(protocol.Handle(context.Background(), req, gochurch.WithConfig(cfg)))
}
