//go:build js && wasm

// Command gochurch-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `gochurch` object with the following API:
//
//	gochurch.version()               → string
//	gochurch.eval(source, peek?)     → { result, peek, output }  (throws on error; the message ends with any peek output)
//	gochurch.compile(source)         → { code, run(peek?) → { result, peek, output } }  (throws on error)
//
// peek is one of "num", "bool", "list" or omitted.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o gochurch.wasm ./cmd/wasm/js/
package main

import (
	"bytes"
	"context"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/gochurch"
	"github.com/sandrolain/gochurch/pkg/engine"
	"github.com/sandrolain/gochurch/pkg/types"
	"github.com/sandrolain/gochurch/pkg/vm"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

// throwRunError reports err together with any peek output printed before it.
func throwRunError(prefix string, err error, out *bytes.Buffer) {
	msg := fmt.Sprintf("%s: %v", prefix, err)
	if out.Len() > 0 {
		msg += "\noutput:\n" + out.String()
	}
	jsThrow(msg)
}

// peekArg reads the optional peek kind at position i.
func peekArg(args []js.Value, i int) (types.PeekKind, bool) {
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() || args[i].String() == "" {
		return 0, false
	}
	kind, ok := types.ParsePeekKind(args[i].String())
	if !ok {
		jsThrow(fmt.Sprintf("gochurch: unknown peek kind %q", args[i].String()))
	}
	return kind, true
}

func resultObject(result *vm.Closure, out *bytes.Buffer, args []js.Value, peekIndex int) interface{} {
	obj := map[string]interface{}{
		"result": result.String(),
		"output": out.String(),
	}
	if kind, ok := peekArg(args, peekIndex); ok {
		obj["peek"] = gochurch.Peek(result, kind)
	}
	return js.ValueOf(obj)
}

// jsEval implements gochurch.eval(source, peek?).
func jsEval(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gochurch.eval requires 1 argument: source (string)")
	}

	var out bytes.Buffer
	result, err := gochurch.EvalWithContext(context.Background(), args[0].String(),
		gochurch.WithPeekOutput(&out),
	)
	if err != nil {
		throwRunError("gochurch.eval", err, &out)
	}
	return resultObject(result, &out, args, 1)
}

// jsCompile implements gochurch.compile(source) → { code, run(peek?) }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gochurch.compile requires 1 argument: source (string)")
	}

	expr, err := gochurch.Compile(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("gochurch.compile: %v", err))
	}

	runFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) interface{} {
		var out bytes.Buffer
		eng := engine.New(engine.WithPeekOutput(&out))
		result, e := eng.Run(context.Background(), expr)
		if e != nil {
			throwRunError("compiled.run", e, &out)
		}
		return resultObject(result, &out, innerArgs, 0)
	})

	return js.ValueOf(map[string]interface{}{
		"code": expr.String(),
		"run":  runFn,
	})
}

func main() {
	api := map[string]interface{}{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return gochurch.Version()
		}),
	}
	js.Global().Set("gochurch", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
