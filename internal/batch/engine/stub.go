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

package engine

import (
	"nxbatch/internal/batch/spec"
	"nxbatch/internal/batch/state"
)

// StubExecutor is a deterministic JobExecutor with no real media backend behind it:
// it always succeeds, deriving its result token from the spec's own hash so the
// result is a pure function of the spec. Useful for exercising the engine, the
// CLI, and replay comparisons without wiring a concrete media-processing backend.
type StubExecutor struct{}

func (StubExecutor) ExecuteJob(s spec.JobExecutionSpec) state.JobExecutionResult {
	return state.JobExecutionResult{
		Success:     true,
		Message:     "stub execution completed successfully",
		ResultToken: "stub_result_" + s.Hash.String(),
	}
}

// FailingExecutor always fails a specific job (matched by spec hash) and otherwise
// delegates to an inner executor. Used to exercise halt-on-failure behavior in
// tests without a real backend.
type FailingExecutor struct {
	Inner    JobExecutor
	FailHash spec.Hash
}

func (f FailingExecutor) ExecuteJob(s spec.JobExecutionSpec) state.JobExecutionResult {
	if s.Hash.Equal(f.FailHash) {
		return state.JobExecutionResult{Success: false, Message: "forced failure"}
	}
	inner := f.Inner
	if inner == nil {
		inner = StubExecutor{}
	}
	return inner.ExecuteJob(s)
}
