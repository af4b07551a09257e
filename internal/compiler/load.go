package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// CompileString compiles CUE source text into a GraphSpec.
func CompileString(src string) (*GraphSpec, error) {
	ctx := cuecontext.New()
	return CompileSpec(ctx.CompileString(src))
}

// LoadFile loads a single .cue file, or every .cue file of a directory as
// one package, and compiles it.
func LoadFile(path string) (*GraphSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load spec: %w", err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("load spec %s: no CUE instances loaded", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	return CompileSpec(ctx.BuildInstance(inst))
}
