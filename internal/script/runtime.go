// Package script runs scripted spell handlers on the yaegi Go interpreter.
//
// A script source is a `package main` Go file importing "spellapi". Every
// exported function with the signature
//
//	func(c spellapi.Call) bool
//
// can be bound to a spell as its entry point.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

var (
	// ErrEntryNotFound means no loaded source defines the entry point.
	ErrEntryNotFound = errors.New("entry point not found")
	// ErrBadSignature means the entry point is not func(spellapi.Call) bool.
	ErrBadSignature = errors.New("entry point has wrong signature")
)

// LoadError reports a script source that failed to evaluate or an entry
// point that could not be registered.
type LoadError struct {
	Source string
	Entry  string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Entry != "" && e.Source != "":
		return fmt.Sprintf("script %s: entry %q: %v", e.Source, e.Entry, e.Err)
	case e.Entry != "":
		return fmt.Sprintf("script entry %q: %v", e.Entry, e.Err)
	default:
		return fmt.Sprintf("script %s: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// allowedPkgs are the standard library packages visible to scripts.
var allowedPkgs = []string{
	"fmt/fmt",
	"math/math",
	"math/rand/rand",
	"strconv/strconv",
	"strings/strings",
	"unicode/unicode",
}

// exports exposes the spell API as import "spellapi".
var exports = interp.Exports{
	"spellapi/spellapi": {
		"Call": reflect.ValueOf((*Call)(nil)),
	},
}

type source struct {
	name string
	it   *interp.Interpreter
}

// Runtime owns the interpreters of all loaded sources and the resolved entry points.
// Later sources shadow earlier ones when they define the same entry.
type Runtime struct {
	mu      sync.RWMutex
	sources []source
	entries map[string]reflect.Value
}

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{entries: make(map[string]reflect.Value)}
}

func restrictedStdlib() interp.Exports {
	restricted := interp.Exports{}
	for _, key := range allowedPkgs {
		if syms, ok := stdlib.Symbols[key]; ok {
			restricted[key] = syms
		}
	}
	return restricted
}

// LoadEntryPoints evaluates one script source.
// Returns *LoadError on syntax or evaluation failure; the source is then ignored.
func (r *Runtime) LoadEntryPoints(name string, src []byte) error {
	i := interp.New(interp.Options{})
	if err := i.Use(restrictedStdlib()); err != nil {
		return &LoadError{Source: name, Err: fmt.Errorf("using stdlib exports: %w", err)}
	}
	if err := i.Use(exports); err != nil {
		return &LoadError{Source: name, Err: fmt.Errorf("using spellapi exports: %w", err)}
	}
	if _, err := i.Eval(string(src)); err != nil {
		return &LoadError{Source: name, Err: err}
	}

	r.mu.Lock()
	r.sources = append(r.sources, source{name: name, it: i})
	// Entries resolved earlier may now be shadowed.
	clear(r.entries)
	r.mu.Unlock()

	slog.Debug("script source loaded", "source", name)
	return nil
}

// LoadDir loads every *.go file in dir in lexical order.
// A broken file does not stop the others; all failures are returned joined.
func (r *Runtime) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return fmt.Errorf("listing scripts in %s: %w", dir, err)
	}
	slices.Sort(paths)

	var errs []error
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &LoadError{Source: path, Err: err})
			continue
		}
		if err := r.LoadEntryPoints(filepath.Base(path), src); err != nil {
			slog.Warn("script source rejected", "source", path, "error", err)
			errs = append(errs, err)
		}
	}

	slog.Info("loaded scripts", "dir", dir, "files", len(paths), "failed", len(errs))
	return errors.Join(errs...)
}

// Resolve checks that entry is defined with the handler signature.
// Returns *LoadError otherwise.
func (r *Runtime) Resolve(entry string) error {
	_, err := r.lookup(entry)
	return err
}

// Invoke runs the entry point synchronously.
// A panic inside the script is recovered and returned as an error.
func (r *Runtime) Invoke(entry string, call Call) (ok bool, err error) {
	fn, err := r.lookup(entry)
	if err != nil {
		return false, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = fmt.Errorf("script entry %q panicked: %v", entry, rec)
		}
	}()

	out := fn.Call([]reflect.Value{reflect.ValueOf(call)})
	return out[0].Bool(), nil
}

// Reset drops all loaded sources.
func (r *Runtime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = nil
	clear(r.entries)
}

func (r *Runtime) lookup(entry string) (reflect.Value, error) {
	if entry == "" || strings.ContainsAny(entry, ". ") {
		return reflect.Value{}, &LoadError{Entry: entry, Err: ErrEntryNotFound}
	}

	r.mu.RLock()
	fn, ok := r.entries[entry]
	r.mu.RUnlock()
	if ok {
		return fn, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := len(r.sources) - 1; idx >= 0; idx-- {
		src := r.sources[idx]
		v, err := src.it.Eval("main." + entry)
		if err != nil {
			continue
		}
		if !isHandler(v) {
			return reflect.Value{}, &LoadError{Source: src.name, Entry: entry, Err: ErrBadSignature}
		}
		r.entries[entry] = v
		return v, nil
	}
	return reflect.Value{}, &LoadError{Entry: entry, Err: ErrEntryNotFound}
}

func isHandler(v reflect.Value) bool {
	if !v.IsValid() || v.Kind() != reflect.Func {
		return false
	}
	ft := v.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 1 {
		return false
	}
	return reflect.TypeOf(Call{}).AssignableTo(ft.In(0)) && ft.Out(0).Kind() == reflect.Bool
}
