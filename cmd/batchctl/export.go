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

	"github.com/google/uuid"

	"nxbatch/internal/batch/engine"
	"nxbatch/internal/batch/retry"
	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
	"nxbatch/internal/batch/state"
)

// evidenceBundle is the persisted shape written by export and read by replay:
// a correlation id identifying this export run plus the ordered ExecutionRecord
// set it produced.
type evidenceBundle struct {
	CorrelationID string                  `json:"correlation_id"`
	SessionID     session.ID              `json:"session_id"`
	Records       []retry.ExecutionRecord `json:"records"`
}

func runExport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("output", "records.json", "path to write the exported evidence bundle")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "export: missing commands-file")
		return 2
	}
	// Flags may also follow the commands file, as the usage line shows.
	commandsPath := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return 2
	}

	sess, g, err := buildSessionGraph(commandsPath)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}

	recorder := &retry.InMemoryRecorder{}
	retryExecutor := retry.NewExecutor(engine.StubExecutor{}, recorder)
	retryExecutor.SetLogger(newBatchLogger())
	eng, err := engine.New(g, newRecordingJobExecutor(sess.ID, retryExecutor), nil)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	eng.SetLogger(newBatchLogger())

	if _, err := eng.ExecuteAll(); err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}

	bundle := evidenceBundle{
		CorrelationID: uuid.New().String(),
		SessionID:     sess.ID,
		Records:       recorder.Records(),
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "wrote %d records to %s (correlation %s)\n", len(bundle.Records), *output, bundle.CorrelationID)
	return 0
}

// recordingJobExecutor adapts a retry.Runner (which takes an explicit
// RetryAttempt) to the engine.JobExecutor interface the execution loop drives
// directly, wiring every job's first attempt through the retry/record layer
// so export captures one ExecutionRecord per job. The engine only ever hands
// ExecuteJob a spec, never the SessionJobID it's running under, so this
// assigns each call a fresh initial attempt in call order — the same order
// the engine itself executes jobs in.
type recordingJobExecutor struct {
	runner    retry.Runner
	sessionID session.ID
	count     int
}

func newRecordingJobExecutor(sessionID session.ID, runner retry.Runner) *recordingJobExecutor {
	return &recordingJobExecutor{runner: runner, sessionID: sessionID}
}

func (r *recordingJobExecutor) ExecuteJob(s spec.JobExecutionSpec) state.JobExecutionResult {
	r.count++
	attemptID := session.InitialSessionJobID(r.sessionID, fmt.Sprintf("export-job-%03d", r.count))
	attempt := retry.InitialAttempt(attemptID)
	return r.runner.ExecuteRetry(s, attempt)
}
