// Copyright 2026 The zeroarc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// archivegen is the derive-glue code generator (spec §9, "Derive macros"):
// it reads a YAML type-description document and emits one Go source file
// per declared type, implementing zeroarc.Value[A, R] and
// validate.Validatable by hand so that generated code never needs a
// reflection-based fallback.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/module"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/zeroarc/zeroarc/internal/schema"
)

var (
	input  = flag.String("schema", "", "path to the YAML type-description document; must be set")
	output = flag.String("out", "", "directory to write generated Go files into; must be set")
)

func run() error {
	flag.Parse()
	if *input == "" {
		return fmt.Errorf("archivegen: must set -schema")
	}
	if *output == "" {
		return fmt.Errorf("archivegen: must set -out")
	}

	f, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("archivegen: %w", err)
	}
	defer f.Close()

	s, err := schema.Parse(f)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := module.CheckPath(s.Module); err != nil {
		return fmt.Errorf("archivegen: %s: module field is not a valid Go module path: %w", *input, err)
	}

	order, err := s.Order()
	if err != nil {
		return err
	}

	files, err := schema.Generate(s, order)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		return fmt.Errorf("archivegen: %w", err)
	}

	// Formatting and writing each generated file is independent of every
	// other one, so fan them out one goroutine per file instead of
	// formatting serially; Wait reports the first formatting or write
	// failure, and the other files still run to completion (spec §9's codegen tool has no analog in
	// the core runtime, so this concurrency is local to the tool, not the
	// single-threaded serializer it generates glue for).
	var g errgroup.Group
	for name, src := range files {
		name, src := name, src
		g.Go(func() error {
			formatted, err := imports.Process(name, src, nil)
			if err != nil {
				return fmt.Errorf("archivegen: formatting %s: %w", name, err)
			}
			return os.WriteFile(filepath.Join(*output, name), formatted, 0o644)
		})
	}
	return g.Wait()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
