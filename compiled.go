// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"os"
	"os/exec"
	"path/filepath"
	"plugin"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// compiled shares the interpreter's state layout and capture phase, but the
// settle phase runs ahead-of-time generated code instead of walking the
// schedule: the whole program is translated once at construction, amortized
// over every subsequent tick.
type compiled struct {
	interp
	settleFn func([]uint64)
	dir      string // plugin build directory, removed on Close
}

// codegenAvailable reports whether the host can build and load generated
// code. Probed once per construction: Go plugins only work on a few
// platforms, and building one needs the go tool on PATH.
func codegenAvailable() error {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		return errors.Errorf("plugins not supported on %s", runtime.GOOS)
	}
	if _, err := exec.LookPath("go"); err != nil {
		return errors.New("go tool not found in PATH")
	}
	return nil
}

func newCompiled(n *Netlist, lanes int, falling bool) (*compiled, error) {
	if err := codegenAvailable(); err != nil {
		return nil, err
	}

	src := genSource(buildProg(n))
	fsrc, err := imports.Process("settle.go", []byte(src), nil)
	if err != nil {
		return nil, errors.Wrap(err, "format generated source")
	}

	dir, err := os.MkdirTemp("", "netsim-codegen-")
	if err != nil {
		return nil, errors.Wrap(err, "create build directory")
	}
	ok := false
	defer func() {
		if !ok {
			os.RemoveAll(dir)
		}
	}()

	srcPath := filepath.Join(dir, "settle.go")
	if err := os.WriteFile(srcPath, fsrc, 0o644); err != nil {
		return nil, errors.Wrap(err, "write generated source")
	}

	soPath := filepath.Join(dir, "settle.so")
	cmd := exec.Command("go", "build", "-buildmode=plugin", "-o", soPath, srcPath)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.Errorf("build plugin: %v: %s", err, out)
	}

	p, err := plugin.Open(soPath)
	if err != nil {
		return nil, errors.Wrap(err, "load plugin")
	}
	sym, err := p.Lookup("Settle")
	if err != nil {
		return nil, errors.Wrap(err, "lookup settle function")
	}
	fn, isFn := sym.(func([]uint64))
	if !isFn {
		return nil, errors.Errorf("settle symbol has type %T", sym)
	}

	c := &compiled{
		interp:   *newInterp(n, lanes, falling),
		settleFn: fn,
		dir:      dir,
	}
	ok = true
	return c, nil
}

func (c *compiled) Tick() {
	for l := range c.vals {
		c.settleFn(c.vals[l])
		c.capture(l)
	}
	c.steps++
}

func (c *compiled) RunSteps(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

func (c *compiled) Backend() Backend { return Compiled }

func (c *compiled) Close() error {
	if c.dir == "" {
		return nil
	}
	err := os.RemoveAll(c.dir)
	c.dir = ""
	return err
}
