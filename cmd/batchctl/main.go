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

// Command batchctl drives the deterministic batch execution core from the shell:
// parse a command list into a plan, run it through the engine, export the
// resulting records, or replay a previously exported record set offline.
package main

import (
	"fmt"
	"io"
	"os"

	"nxbatch/pkg/config"
	"nxbatch/pkg/log"
)

// newBatchLogger builds the logger every batchctl subcommand attaches to its
// engine/executor/driver. Level defaults to info; LOG_LEVEL overrides it so
// operators can turn on debug output without a config file.
func newBatchLogger() *log.Logger {
	cfg := &log.Config{Level: os.Getenv("LOG_LEVEL"), Format: "text"}
	l, err := log.NewLogger(cfg)
	if err != nil {
		return nil
	}
	return l
}

func main() {
	os.Exit(dispatch(os.Args[1:], os.Stdout, os.Stderr))
}

func dispatch(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stdout)
		return 0
	}
	cmd := args[0]
	rest := args[1:]
	switch cmd {
	case "version":
		fmt.Fprintln(stdout, "batchctl 1.0.0")
		return 0
	case "plan":
		return runPlan(rest, stdout, stderr)
	case "run":
		return runExecute(rest, stdout, stderr)
	case "export":
		return runExport(rest, stdout, stderr)
	case "replay":
		return runReplay(rest, stdout, stderr)
	default:
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: batchctl <command> [args]")
	fmt.Fprintln(w, "  version                         - print version")
	fmt.Fprintln(w, "  plan <commands-file>            - plan a batch and print BatchPlan + Session as JSON")
	fmt.Fprintln(w, "  run <commands-file> [--fail N]  - execute the batch; --fail halts at the Nth job (1-based)")
	fmt.Fprintln(w, "  export <commands-file> [--output records.json] - run the batch and persist its ExecutionRecords")
	fmt.Fprintln(w, "  replay <records.json>           - offline replay and verification of a persisted record set")
}

func loadBatchConfig(path string) config.BatchConfig {
	cfg, err := config.LoadBatchConfig(path)
	if err != nil {
		return config.BatchConfig{TraceFormat: "text"}
	}
	return cfg.Batch
}
