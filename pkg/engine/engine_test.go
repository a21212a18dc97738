package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/gochurch/pkg/cache"
	"github.com/sandrolain/gochurch/pkg/config"
	"github.com/sandrolain/gochurch/pkg/engine"
	"github.com/sandrolain/gochurch/pkg/types"
)

type scenario struct {
	Name    string `yaml:"name"`
	Source  string `yaml:"source"`
	Peek    string `yaml:"peek"`
	Want    string `yaml:"want"`
	Output  string `yaml:"output"`
	Error   string `yaml:"error"`
	Options struct {
		MaxDepth    int  `yaml:"max_depth"`
		StrictStack bool `yaml:"strict_stack"`
		RequireMain bool `yaml:"require_main"`
	} `yaml:"options"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var scenarios []scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		t.Fatalf("decode scenarios: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("no scenarios")
	}
	return scenarios
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			var out bytes.Buffer
			opts := []engine.Option{
				engine.WithPeekOutput(&out),
				engine.WithStrictStack(sc.Options.StrictStack),
				engine.WithRequireMain(sc.Options.RequireMain),
			}
			if sc.Options.MaxDepth > 0 {
				opts = append(opts, engine.WithMaxDepth(sc.Options.MaxDepth))
			}
			eng := engine.New(opts...)

			result, err := eng.Eval(context.Background(), sc.Source)
			if sc.Error != "" {
				if !types.IsCode(err, types.ErrorCode(sc.Error)) {
					t.Fatalf("expected error %s, got %v", sc.Error, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if sc.Peek != "" {
				kind, ok := types.ParsePeekKind(sc.Peek)
				if !ok {
					t.Fatalf("bad peek kind %q", sc.Peek)
				}
				if got := eng.Peek(result, kind); got != sc.Want {
					t.Errorf("peek %s = %q, want %q", sc.Peek, got, sc.Want)
				}
			}
			if got := out.String(); got != sc.Output {
				t.Errorf("output = %q, want %q", got, sc.Output)
			}
		})
	}
}

func TestEngineCaching(t *testing.T) {
	eng := engine.New(engine.WithCaching(true), engine.WithCacheSize(8))
	source := `let two = \f x.f (f x); ADD two two`

	first, err := eng.Compile(source)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Compile(source)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the cached expression")
	}

	c := eng.Cache()
	if c == nil {
		t.Fatal("expected a cache")
	}
	if got := c.Capacity(); got != 8 {
		t.Errorf("capacity = %d, want 8", got)
	}
	if got := c.Stats(); got.Hits != 1 || got.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", got)
	}

	if _, err := eng.Compile(`undefined_var`); err == nil {
		t.Fatal("expected compile error")
	}
	if got := c.Len(); got != 1 {
		t.Errorf("failed compilations must not be cached, have %d entries", got)
	}
}

func TestEngineWithoutCache(t *testing.T) {
	eng := engine.New()
	if eng.Cache() != nil {
		t.Fatal("caching is off by default")
	}
	a, _ := eng.Compile(`TRUE`)
	b, _ := eng.Compile(`TRUE`)
	if a == b {
		t.Fatal("expected separate compilations")
	}
}

func TestEngineSharedCacheSeparatesPolicies(t *testing.T) {
	shared := cache.New(4)
	lenient := engine.New(engine.WithCache(shared))
	strict := engine.New(engine.WithCache(shared), engine.WithRequireMain(true))

	if _, err := lenient.Compile(`let id = \x.x`); err != nil {
		t.Fatal(err)
	}
	_, err := strict.Compile(`let id = \x.x`)
	if !types.IsCode(err, types.ErrNoMainExpression) {
		t.Fatalf("expected %s, got %v", types.ErrNoMainExpression, err)
	}
}

func TestEngineCompiledExpression(t *testing.T) {
	eng := engine.New()
	expr, err := eng.Compile(`let one = \f x.f x; let one = SUCC one; one`)
	if err != nil {
		t.Fatal(err)
	}
	if got := expr.Source(); got != `let one = \f x.f x; let one = SUCC one; one` {
		t.Errorf("source = %q", got)
	}
	if got := expr.Bindings(); len(got) != 1 || got[0] != "one" {
		t.Errorf("bindings = %v", got)
	}

	succ, err := eng.Compile(`SUCC`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := succ.String(), "λ(λ(λ(1 2 1 @ 0 @ @)))"; got != want {
		t.Errorf("disassembly = %s, want %s", got, want)
	}
}

func TestEngineRunIsRepeatableAndConcurrent(t *testing.T) {
	eng := engine.New(engine.WithCaching(true))
	expr, err := eng.Compile(`let two = \f x.f (f x); ADD two (SUCC two)`)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := eng.Run(context.Background(), expr)
			if err != nil {
				errs <- err
				return
			}
			if got := eng.Peek(result, types.PeekNumber); got != "5" {
				errs <- errors.New("got " + got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestEngineCompileAndRun(t *testing.T) {
	program := &types.Program{
		Statements: []types.Statement{
			types.Let("two", types.L("f", types.L("x", types.A(types.V("f"), types.A(types.V("f"), types.V("x")))))),
		},
		Main: types.A(types.B("SUCC"), types.V("two")),
	}

	eng := engine.New()
	result, err := eng.CompileAndRun(context.Background(), program)
	if err != nil {
		t.Fatal(err)
	}
	if got := eng.Peek(result, types.PeekNumber); got != "3" {
		t.Fatalf("got %s, want 3", got)
	}

	expr, err := eng.CompileProgram(program)
	if err != nil {
		t.Fatal(err)
	}
	if expr.Source() != "" {
		t.Errorf("hand-built programs have no source, got %q", expr.Source())
	}
}

func TestEngineRunNil(t *testing.T) {
	if _, err := engine.New().Run(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.New().Eval(ctx, `(\x.x) (\y.y)`)
	if !types.IsCode(err, types.ErrCancelled) {
		t.Fatalf("expected %s, got %v", types.ErrCancelled, err)
	}
}

func TestEngineTimeout(t *testing.T) {
	// 10^16 applications of the identity, nested only a few levels deep.
	source := `
		let ten = \f x.f (f (f (f (f (f (f (f (f (f x)))))))));
		let mul = \m n f x.m (n f) x;
		let e2 = mul ten ten;
		let e4 = mul e2 e2;
		let e8 = mul e4 e4;
		let e16 = mul e8 e8;
		e16 (\y.y) (\z.z)
	`
	eng := engine.New(engine.WithTimeout(20 * time.Millisecond))

	start := time.Now()
	_, err := eng.Eval(context.Background(), source)
	if !types.IsCode(err, types.ErrCancelled) {
		t.Fatalf("expected %s, got %v", types.ErrCancelled, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline in chain, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestEnginePeekBudget(t *testing.T) {
	source := `SUCC (SUCC (SUCC (\f x.x)))`
	small := engine.New(engine.WithMaxPeekSteps(3))
	result, err := small.Eval(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}
	if got := small.Peek(result, types.PeekNumber); got != "<not a number>" {
		t.Errorf("got %s with a tiny budget", got)
	}
	if got := engine.New().Peek(result, types.PeekNumber); got != "3" {
		t.Errorf("got %s with the default budget", got)
	}
}

func TestEngineWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDepth = 50
	cfg.Caching = true
	cfg.CacheSize = 2

	eng := engine.New(engine.WithConfig(cfg), engine.WithPeekOutput(io.Discard))
	if eng.Cache() == nil || eng.Cache().Capacity() != 2 {
		t.Fatal("cache settings not applied")
	}
	_, err := eng.Eval(context.Background(), `(\x.x x) (\x.x x)`)
	if !types.IsCode(err, types.ErrDepthExceeded) {
		t.Fatalf("expected %s, got %v", types.ErrDepthExceeded, err)
	}
}

func TestEngineDebugLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := engine.New(
		engine.WithDebug(true),
		engine.WithLogger(logger),
		engine.WithCaching(true),
		engine.WithPeekOutput(io.Discard),
	)
	for i := 0; i < 2; i++ {
		if _, err := eng.Eval(context.Background(), `peek_num \f x.x; TRUE`); err != nil {
			t.Fatal(err)
		}
	}

	for _, msg := range []string{"cache miss", "cache hit", "compiled program", "peek", "run finished"} {
		if !bytes.Contains(logs.Bytes(), []byte("msg=\""+msg+"\"")) && !bytes.Contains(logs.Bytes(), []byte("msg="+msg+" ")) {
			t.Errorf("missing log record %q in:\n%s", msg, logs.String())
		}
	}
}
