// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"nxbatch/internal/batch/engine"
	"nxbatch/internal/batch/replay"
	"nxbatch/internal/batch/retry"
)

func runReplay(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "replay: missing records.json")
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	defer f.Close()

	var bundle evidenceBundle
	if err := json.NewDecoder(f).Decode(&bundle); err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}

	source := replay.NewInMemorySource(bundle.Records)
	// Replay re-executes every recorded intent through the same deterministic
	// stub the original run used; no recorder is attached, so replay never
	// writes back to the evidence trail it is verifying.
	retryExecutor := retry.NewExecutor(engine.StubExecutor{}, nil)
	driver := replay.NewDriver(retryExecutor)
	driver.SetLogger(newBatchLogger())

	report := driver.ReplayAndVerify(source)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	if !report.DeterministicMatch {
		return 1
	}
	return 0
}
