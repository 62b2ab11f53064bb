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
	"nxbatch/internal/batch/retry"
	"nxbatch/internal/batch/spec"
	"nxbatch/internal/batch/state"
)

// ForcingExecutor is a controllable retry.Runner for divergence testing: it forces
// the outcome for specific retry indices and otherwise succeeds deterministically.
// It never writes to a recorder, matching the offline, read-only nature of replay.
type ForcingExecutor struct {
	forced map[uint32]retry.ExecutionOutcome
}

// NewForcingExecutor constructs an executor with no forced outcomes; every retry
// index succeeds until ForceOutcome is called for it.
func NewForcingExecutor() *ForcingExecutor {
	return &ForcingExecutor{forced: make(map[uint32]retry.ExecutionOutcome)}
}

// ForceOutcome makes every later ExecuteRetry call for retryIndex follow outcome's
// Kind. Only the Kind is carried through: a forced failure is returned as an
// unsuccessful result, which OutcomeFromResult maps to Failed(ProcessingFailed)
// whatever ErrorCode outcome holds.
func (f *ForcingExecutor) ForceOutcome(retryIndex uint32, outcome retry.ExecutionOutcome) {
	f.forced[retryIndex] = outcome
}

func (f *ForcingExecutor) ExecuteRetry(_ spec.JobExecutionSpec, attempt retry.RetryAttempt) state.JobExecutionResult {
	outcome, ok := f.forced[attempt.RetryIndex]
	if !ok {
		return state.JobExecutionResult{Success: true}
	}
	if outcome.Kind == retry.Success {
		return state.JobExecutionResult{Success: true}
	}
	return state.JobExecutionResult{Success: false, Message: "forced by replay test"}
}
