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

// Package state 实现运行时状态机：ExecutionState、ExecutionJobState 与 StateStore
// （design: nx-engine-batch/ExecutionState.h）。合法迁移只有
// Planned→Running、Running→Completed、Running→Failed；其余一律 ErrInvalidTransition，
// 且不改变被拒绝一侧的状态。
package state

import (
	"errors"
	"fmt"

	"nxbatch/internal/batch/session"
)

// ErrNotFound 表示按 SessionJobID 在 StateStore 中找不到对应条目。
var ErrNotFound = errors.New("state: job not found")

// ErrInvalidTransition 表示尝试了一次不在合法集合中的状态迁移。
var ErrInvalidTransition = errors.New("state: invalid transition")

// ExecutionState 是任务的运行时状态。
type ExecutionState int

const (
	Planned ExecutionState = iota
	Running
	Completed
	Failed
)

func (s ExecutionState) String() string {
	switch s {
	case Planned:
		return "planned"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal 报告该状态是否为 Completed 或 Failed。
func (s ExecutionState) IsTerminal() bool {
	return s == Completed || s == Failed
}

func legal(from, to ExecutionState) bool {
	switch {
	case from == Planned && to == Running:
		return true
	case from == Running && to == Completed:
		return true
	case from == Running && to == Failed:
		return true
	default:
		return false
	}
}

// JobExecutionResult 是单次任务执行的结果描述符。
type JobExecutionResult struct {
	Success     bool
	Message     string
	ResultToken string
}

// ExecutionJobState 是某个任务在某一时刻的运行时状态快照。
type ExecutionJobState struct {
	JobID           session.SessionJobID
	CurrentState    ExecutionState
	ExecutionResult *JobExecutionResult // Planned/Running 时为 nil；Completed/Failed 时非 nil
}

// NewPlanned 构造处于 Planned 状态、无结果的初始状态。
func NewPlanned(jobID session.SessionJobID) ExecutionJobState {
	return ExecutionJobState{JobID: jobID, CurrentState: Planned}
}

// ToRunning 要求当前状态为 Planned，否则返回 ErrInvalidTransition 且不修改 s。
func (s ExecutionJobState) ToRunning() (ExecutionJobState, error) {
	if !legal(s.CurrentState, Running) {
		return s, fmt.Errorf("%w: %s -> running for job %s", ErrInvalidTransition, s.CurrentState, s.JobID)
	}
	return ExecutionJobState{JobID: s.JobID, CurrentState: Running}, nil
}

// ToCompleted 要求当前状态为 Running，否则返回 ErrInvalidTransition 且不修改 s。
func (s ExecutionJobState) ToCompleted(result JobExecutionResult) (ExecutionJobState, error) {
	if !legal(s.CurrentState, Completed) {
		return s, fmt.Errorf("%w: %s -> completed for job %s", ErrInvalidTransition, s.CurrentState, s.JobID)
	}
	r := result
	return ExecutionJobState{JobID: s.JobID, CurrentState: Completed, ExecutionResult: &r}, nil
}

// ToFailed 要求当前状态为 Running，否则返回 ErrInvalidTransition 且不修改 s。
func (s ExecutionJobState) ToFailed(result JobExecutionResult) (ExecutionJobState, error) {
	if !legal(s.CurrentState, Failed) {
		return s, fmt.Errorf("%w: %s -> failed for job %s", ErrInvalidTransition, s.CurrentState, s.JobID)
	}
	r := result
	return ExecutionJobState{JobID: s.JobID, CurrentState: Failed, ExecutionResult: &r}, nil
}

// IsTerminal 报告该任务当前是否处于终态。
func (s ExecutionJobState) IsTerminal() bool { return s.CurrentState.IsTerminal() }
