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

package retry

import (
	"testing"

	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
	"nxbatch/internal/batch/state"
)

func sampleIntent() spec.JobExecutionSpec {
	return spec.Create(spec.Convert, "nx convert --input a.mp4", []string{"--input", "a.mp4"}, spec.RetryPolicy{MaxAttempts: 3, HaltOnFailure: true}, spec.Halt, nil)
}

func TestRetryLineageRetryIndexAndParent(t *testing.T) {
	id := session.InitialSessionJobID("sess-1", "job-001")
	first := InitialAttempt(id)
	chain := NewChain(sampleIntent(), first)

	second := chain.AddRetry()
	third := chain.AddRetry()

	if chain.Count() != 3 {
		t.Fatalf("expected 3 attempts, got %d", chain.Count())
	}
	if first.ParentAttemptID != nil || first.RetryIndex != 0 {
		t.Fatalf("initial attempt should have no parent and retry_index 0")
	}
	if second.RetryIndex != 1 || second.ParentAttemptID == nil || !second.ParentAttemptID.Equal(first.AttemptID) {
		t.Fatalf("unexpected second attempt: %+v", second)
	}
	if third.RetryIndex != 2 || third.ParentAttemptID == nil || !third.ParentAttemptID.Equal(second.AttemptID) {
		t.Fatalf("unexpected third attempt: %+v", third)
	}
}

func TestRetryIntentNeverMutates(t *testing.T) {
	intent := sampleIntent()
	id := session.InitialSessionJobID("sess-1", "job-001")
	chain := NewChain(intent, InitialAttempt(id))
	chain.AddRetry()
	chain.AddRetry()

	for _, a := range chain.Attempts {
		_ = a
	}
	if !chain.Intent.Equal(intent) {
		t.Fatalf("chain intent mutated across retries")
	}
}

type fixedExecutor struct {
	success bool
}

func (f fixedExecutor) ExecuteJob(spec.JobExecutionSpec) state.JobExecutionResult {
	return state.JobExecutionResult{Success: f.success}
}

func TestExecuteRetryAppendsExactlyOneRecord(t *testing.T) {
	rec := &InMemoryRecorder{}
	executor := NewExecutor(fixedExecutor{success: true}, rec)

	id := session.InitialSessionJobID("sess-1", "job-001")
	attempt := InitialAttempt(id)
	intent := sampleIntent()

	result := executor.ExecuteRetry(intent, attempt)
	if !result.Success {
		t.Fatalf("expected success")
	}
	records := rec.Records()
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(records))
	}
	if records[0].Outcome.Kind != Success {
		t.Fatalf("expected Success outcome, got %v", records[0].Outcome)
	}
}

func TestExecuteRetryMapsFailureToProcessingFailed(t *testing.T) {
	rec := &InMemoryRecorder{}
	executor := NewExecutor(fixedExecutor{success: false}, rec)

	id := session.InitialSessionJobID("sess-1", "job-001")
	executor.ExecuteRetry(sampleIntent(), InitialAttempt(id))

	records := rec.Records()
	if records[0].Outcome.Kind != Failed || records[0].Outcome.ErrorCode != ErrorProcessingFailed {
		t.Fatalf("unexpected outcome: %+v", records[0].Outcome)
	}
}

func TestExecuteRetryWithoutRecorderDoesNotPanic(t *testing.T) {
	executor := NewExecutor(fixedExecutor{success: true}, nil)
	id := session.InitialSessionJobID("sess-1", "job-001")
	result := executor.ExecuteRetry(sampleIntent(), InitialAttempt(id))
	if !result.Success {
		t.Fatalf("expected success")
	}
}

func TestExecutionRecordEqualityIsStructural(t *testing.T) {
	id := session.InitialSessionJobID("sess-1", "job-001")
	intent := sampleIntent()
	a := ExecutionRecord{AttemptID: id, RetryIndex: 0, Intent: intent, Outcome: ExecutionOutcome{Kind: Success}}
	b := ExecutionRecord{AttemptID: id, RetryIndex: 0, Intent: intent, Outcome: ExecutionOutcome{Kind: Success}}
	if !a.Equal(b) {
		t.Fatalf("expected structurally equal records to compare equal")
	}
	c := b
	c.RetryIndex = 1
	if a.Equal(c) {
		t.Fatalf("expected records with different retry_index to differ")
	}
}
