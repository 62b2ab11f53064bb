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

	"nxbatch/internal/batch/coordinator"
	"nxbatch/internal/batch/engine"
	"nxbatch/internal/batch/graph"
	"nxbatch/internal/batch/session"
)

func runPlan(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "plan: missing commands-file")
		return 2
	}

	cmds, err := loadCommands(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "plan: %v\n", err)
		return 1
	}

	plan := session.PlanBatch(cmds)
	sess := session.New(cmds)

	out := struct {
		Plan    session.BatchPlan `json:"plan"`
		Session *session.Session  `json:"session"`
	}{Plan: plan, Session: sess}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return encodeOrFail(enc, out, stderr)
}

func runExecute(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	failAt := fs.Int("fail", 0, "halt the batch at the Nth executed job (1-based); 0 disables forced failure")
	configPath := fs.String("config", "", "path to a batch.yaml config file (optional)")
	format := fs.String("format", "", "trace output format: json|text; defaults to the config's trace_format")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "run: missing commands-file")
		return 2
	}
	// Flags may also follow the commands file, as the usage line shows.
	commandsPath := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return 2
	}

	sess, g, err := buildSessionGraph(commandsPath)
	if err != nil {
		fmt.Fprintf(stderr, "run: %v\n", err)
		return 1
	}

	var executor engine.JobExecutor = engine.StubExecutor{}
	if *failAt > 0 && *failAt <= len(sess.Jobs) {
		failSpec, ok := g.Spec(sess.Jobs[*failAt-1].JobID)
		if ok {
			executor = engine.FailingExecutor{FailHash: failSpec.Hash}
		}
	}

	eng, err := engine.New(g, executor, nil)
	if err != nil {
		fmt.Fprintf(stderr, "run: %v\n", err)
		return 1
	}
	eng.SetLogger(newBatchLogger())

	result, err := eng.ExecuteAll()
	if err != nil {
		fmt.Fprintf(stderr, "run: %v\n", err)
		return 1
	}

	resolvedFormat := *format
	if resolvedFormat == "" {
		resolvedFormat = loadBatchConfig(*configPath).TraceFormat
	}
	if resolvedFormat == "text" {
		printTraceText(stdout, result)
	} else {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "run: %v\n", err)
			return 1
		}
	}
	if !result.AllJobsCompleted {
		return 1
	}
	return 0
}

func printTraceText(w io.Writer, result engine.ExecutionResult) {
	fmt.Fprintf(w, "jobs_executed=%d all_completed=%t\n", result.JobsExecuted, result.AllJobsCompleted)
	for _, rec := range result.Trace {
		fmt.Fprintf(w, "  [%d] %s: %s -> %s\n", rec.ExecutionIndex, rec.JobID.String(), rec.PreviousState.String(), rec.NewState.String())
	}
}

// buildSessionGraph loads commands from path and constructs the session and
// execution graph a single invocation needs — the plumbing shared by run and
// export.
func buildSessionGraph(path string) (*session.Session, *graph.ExecutionGraph, error) {
	cmds, err := loadCommands(path)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(cmds)
	g := coordinator.BuildGraph(sess)
	return sess, g, nil
}

func encodeOrFail(enc *json.Encoder, v any, stderr io.Writer) int {
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}

