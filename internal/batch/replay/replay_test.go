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

package replay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nxbatch/internal/batch/engine"
	"nxbatch/internal/batch/retry"
	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
)

func sampleIntent() spec.JobExecutionSpec {
	return spec.Create(spec.Convert, "nx convert --input test.mp4 --output test.mkv",
		[]string{"nx", "convert", "--input", "test.mp4", "--output", "test.mkv"},
		spec.RetryPolicy{MaxAttempts: 1, HaltOnFailure: true}, spec.Halt, nil)
}

func TestReplayEmptySourceIsSuccess(t *testing.T) {
	driver := NewDriver(NewForcingExecutor())
	report := driver.ReplayAndVerify(NewInMemorySource(nil))
	if !report.DeterministicMatch {
		t.Fatalf("expected success on empty source")
	}
	if len(report.Mismatches) != 0 {
		t.Fatalf("expected no mismatches")
	}
}

func TestReplayMatchWhenOutcomesAgree(t *testing.T) {
	attemptID := session.InitialSessionJobID("test-session", "job-001")
	record := retry.ExecutionRecord{
		AttemptID:  attemptID,
		RetryIndex: 0,
		Intent:     sampleIntent(),
		Outcome:    retry.ExecutionOutcome{Kind: retry.Success},
	}
	driver := NewDriver(NewForcingExecutor())
	report := driver.ReplayAndVerify(NewInMemorySource([]retry.ExecutionRecord{record}))

	if !report.DeterministicMatch {
		t.Fatalf("expected deterministic match, got mismatches: %+v", report.Mismatches)
	}
}

func TestReplayDivergenceWhenForcedFailureDiffersFromRecordedSuccess(t *testing.T) {
	attemptID := session.InitialSessionJobID("test-session", "job-001")
	record := retry.ExecutionRecord{
		AttemptID:  attemptID,
		RetryIndex: 0,
		Intent:     sampleIntent(),
		Outcome:    retry.ExecutionOutcome{Kind: retry.Success},
	}

	executor := NewForcingExecutor()
	executor.ForceOutcome(0, retry.ExecutionOutcome{Kind: retry.Failed, ErrorCode: retry.ErrorProcessingFailed})

	driver := NewDriver(executor)
	report := driver.ReplayAndVerify(NewInMemorySource([]retry.ExecutionRecord{record}))

	if report.DeterministicMatch {
		t.Fatalf("expected divergence")
	}
	if len(report.Mismatches) != 1 {
		t.Fatalf("expected exactly 1 mismatch, got %d", len(report.Mismatches))
	}
	m := report.Mismatches[0]
	if m.RetryIndex != 0 {
		t.Fatalf("expected mismatch at retry_index 0, got %d", m.RetryIndex)
	}
	if m.Expected.Kind != retry.Success {
		t.Fatalf("expected expected-outcome Success, got %v", m.Expected)
	}
	if m.Actual.Kind != retry.Failed || m.Actual.ErrorCode != retry.ErrorProcessingFailed {
		t.Fatalf("expected actual-outcome Failed(ProcessingFailed), got %v", m.Actual)
	}
}

func TestReplayDoesNotSkipExecutionBasedOnPastOutcomes(t *testing.T) {
	attemptID := session.InitialSessionJobID("test-session", "job-001")
	record := retry.ExecutionRecord{
		AttemptID:  attemptID,
		RetryIndex: 0,
		Intent:     sampleIntent(),
		Outcome:    retry.ExecutionOutcome{Kind: retry.Failed, ErrorCode: retry.ErrorProcessingFailed},
	}

	// Forcing executor defaults to success for any retry index without an explicit
	// forced outcome; if replay short-circuited on the recorded failure it would
	// never call the executor and this would spuriously match.
	driver := NewDriver(NewForcingExecutor())
	report := driver.ReplayAndVerify(NewInMemorySource([]retry.ExecutionRecord{record}))

	if report.DeterministicMatch {
		t.Fatalf("expected divergence: replay must re-execute rather than trust the recorded outcome")
	}
}

func TestReplayDetectsMultipleDivergences(t *testing.T) {
	attempt1 := session.InitialSessionJobID("test-session", "job-001")
	attempt2 := session.Retry(attempt1)

	records := []retry.ExecutionRecord{
		{AttemptID: attempt1, RetryIndex: 0, Intent: sampleIntent(), Outcome: retry.ExecutionOutcome{Kind: retry.Success}},
		{AttemptID: attempt2, RetryIndex: 1, Intent: sampleIntent(), Outcome: retry.ExecutionOutcome{Kind: retry.Success}},
	}

	executor := NewForcingExecutor()
	executor.ForceOutcome(0, retry.ExecutionOutcome{Kind: retry.Failed, ErrorCode: retry.ErrorProcessingFailed})
	executor.ForceOutcome(1, retry.ExecutionOutcome{Kind: retry.Failed, ErrorCode: retry.ErrorProcessingFailed})

	driver := NewDriver(executor)
	report := driver.ReplayAndVerify(NewInMemorySource(records))

	if report.DeterministicMatch {
		t.Fatalf("expected divergence")
	}
	if len(report.Mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %d", len(report.Mismatches))
	}
}

func TestGroupByIntentHashSortsGroupsAndMembers(t *testing.T) {
	attempt1 := session.InitialSessionJobID("s", "job-001")
	attempt2 := session.Retry(attempt1)
	intentA := sampleIntent()
	intentB := spec.Create(spec.AudioLab, "nx audio --input x", nil, spec.RetryPolicy{}, spec.Halt, nil)

	records := []retry.ExecutionRecord{
		{AttemptID: attempt2, RetryIndex: 1, Intent: intentA, Outcome: retry.ExecutionOutcome{Kind: retry.Success}},
		{AttemptID: attempt1, RetryIndex: 0, Intent: intentA, Outcome: retry.ExecutionOutcome{Kind: retry.Success}},
		{AttemptID: attempt1, RetryIndex: 0, Intent: intentB, Outcome: retry.ExecutionOutcome{Kind: retry.Success}},
	}

	groups := GroupByIntentHash(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for i := 1; i < len(groups); i++ {
		if groups[i-1].IntentHash >= groups[i].IntentHash {
			t.Fatalf("groups not sorted by hash")
		}
	}
	for _, g := range groups {
		for i := 1; i < len(g.Records); i++ {
			if g.Records[i-1].RetryIndex > g.Records[i].RetryIndex {
				t.Fatalf("group members not sorted by retry_index")
			}
		}
	}
}

// TestReplayIntegrationRecordThenReplayRoundTrips exercises the full
// record → replay pipeline against the reference stub executor, the shape a
// real export/replay CLI round trip takes.
func TestReplayIntegrationRecordThenReplayRoundTrips(t *testing.T) {
	recorder := &retry.InMemoryRecorder{}
	recordingExecutor := retry.NewExecutor(engine.StubExecutor{}, recorder)

	intent := sampleIntent()
	attemptID := session.InitialSessionJobID("test-session", "job-001")
	attempt := retry.InitialAttempt(attemptID)
	result := recordingExecutor.ExecuteRetry(intent, attempt)
	require.True(t, result.Success)
	require.Len(t, recorder.Records(), 1)

	replayExecutor := retry.NewExecutor(engine.StubExecutor{}, nil)
	driver := NewDriver(replayExecutor)
	source := NewInMemorySource(recorder.Records())

	report := driver.ReplayAndVerify(source)
	require.True(t, report.DeterministicMatch)
	require.Empty(t, report.Mismatches)
}
