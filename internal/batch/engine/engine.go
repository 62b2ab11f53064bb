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

// Package engine 实现确定性执行引擎：单线程驱动循环，按图的节点顺序把每个任务推过
// 状态机，产生一条全序 trace，并在首次失败时立即停止（design: nx-engine-batch/DeterministicExecutionEngine.h）。
package engine

import (
	"errors"
	"fmt"

	"nxbatch/internal/batch/graph"
	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
	"nxbatch/internal/batch/state"
	"nxbatch/pkg/log"
)

// ErrInvalidArgument 表示构造 Engine 时给出了非法参数（目前仅为 nil 执行器）。
var ErrInvalidArgument = errors.New("engine: invalid argument")

// ErrSpecNotFound 表示引擎要执行某个任务时，图中没有对应的 JobExecutionSpec。
var ErrSpecNotFound = errors.New("engine: spec not found")

// JobExecutor 是单任务执行的抽象。实现必须是纯函数式的：同一个 spec 在任意次调用中
// 都必须产生字段相等的结果，不得观测同级任务或会话状态，不得通过可见的方式在调用间
// 泄露副作用状态。
type JobExecutor interface {
	ExecuteJob(s spec.JobExecutionSpec) state.JobExecutionResult
}

// Observer 是引擎对外通知的只读接口；回调绝不能变更引擎状态，也绝不能影响后续将要
// 发生的迁移。是否挂载 observer 不改变 trace 或最终状态。
type Observer interface {
	OnHalt(jobID session.SessionJobID, executionIndex uint64)
	OnComplete(sessionID session.ID, totalJobs, completedCount uint64)
}

// NoopObserver 是一个什么都不做的 Observer，在调用方未提供 observer 时使用。
type NoopObserver struct{}

func (NoopObserver) OnHalt(session.SessionJobID, uint64)   {}
func (NoopObserver) OnComplete(session.ID, uint64, uint64) {}

// ExecutionTraceRecord 是引擎产生的全序 trace 中的一条记录。
type ExecutionTraceRecord struct {
	ExecutionIndex uint64
	JobID          session.SessionJobID
	PreviousState  state.ExecutionState
	NewState       state.ExecutionState
}

// Snapshot 是运行结束时状态存储的快照。
type Snapshot struct {
	States []state.ExecutionJobState
	Counts map[state.ExecutionState]int
}

// ExecutionResult 是一次 ExecuteAll 调用的完整结果。
type ExecutionResult struct {
	AllJobsCompleted bool
	JobsExecuted     uint64
	Trace            []ExecutionTraceRecord
	FinalState       Snapshot
}

// Engine 是确定性执行引擎：固定的构造参数加上内部状态存储。
type Engine struct {
	graph          *graph.ExecutionGraph
	executor       JobExecutor
	observer       Observer
	store          *state.StateStore
	executionOrder []session.SessionJobID
	sessionID      session.ID
	logger         *log.Logger
}

// SetLogger attaches a structured logger for job-boundary events (job started,
// job halted, run completed). A nil logger (the default) disables logging
// entirely; ExecuteAll's trace and final state never depend on it.
func (e *Engine) SetLogger(l *log.Logger) { e.logger = l }

// New 构造一个 Engine。nil 执行器被拒绝；未提供 observer 时退化为 NoopObserver。
// execution_order 恰好是图的节点顺序：本版本不做任何拓扑重排，图的生产者负责给出
// 期望的顺序。
func New(g *graph.ExecutionGraph, executor JobExecutor, observer Observer) (*Engine, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: executor must not be nil", ErrInvalidArgument)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	order := make([]session.SessionJobID, 0, g.NodeCount())
	var sessionID session.ID
	for i, n := range g.Nodes {
		order = append(order, n.JobID)
		if i == 0 {
			sessionID = n.JobID.Session
		}
	}
	return &Engine{
		graph:          g,
		executor:       executor,
		observer:       observer,
		store:          state.NewStore(g),
		executionOrder: order,
		sessionID:      sessionID,
	}, nil
}

// ExecuteAll 按图的节点顺序依次驱动每个任务，首次失败时立即停止。
func (e *Engine) ExecuteAll() (ExecutionResult, error) {
	var trace []ExecutionTraceRecord
	var jobsExecuted uint64
	var index uint64

	for _, jobID := range e.executionOrder {
		planned, err := e.store.Get(jobID)
		if err != nil {
			return ExecutionResult{}, err
		}

		running, err := planned.ToRunning()
		if err != nil {
			return ExecutionResult{}, err
		}
		if err := e.store.Update(running); err != nil {
			return ExecutionResult{}, err
		}
		trace = append(trace, ExecutionTraceRecord{
			ExecutionIndex: index,
			JobID:          jobID,
			PreviousState:  state.Planned,
			NewState:       state.Running,
		})
		index++
		jobsExecuted++
		if e.logger != nil {
			e.logger.Info("batch job started", "job_id", jobID.String())
		}

		s, ok := e.graph.Spec(jobID)
		if !ok {
			return ExecutionResult{}, fmt.Errorf("%w: %s", ErrSpecNotFound, jobID)
		}

		result := e.executor.ExecuteJob(s)

		var terminal state.ExecutionJobState
		if result.Success {
			terminal, err = running.ToCompleted(result)
		} else {
			terminal, err = running.ToFailed(result)
		}
		if err != nil {
			return ExecutionResult{}, err
		}
		if err := e.store.Update(terminal); err != nil {
			return ExecutionResult{}, err
		}
		trace = append(trace, ExecutionTraceRecord{
			ExecutionIndex: index,
			JobID:          jobID,
			PreviousState:  state.Running,
			NewState:       terminal.CurrentState,
		})
		index++

		if !result.Success {
			if e.logger != nil {
				e.logger.Warn("batch halted on job failure", "job_id", jobID.String(), "execution_index", index-1)
			}
			e.observer.OnHalt(jobID, index-1)
			return ExecutionResult{
				AllJobsCompleted: false,
				JobsExecuted:     jobsExecuted,
				Trace:            trace,
				FinalState:       e.snapshot(),
			}, nil
		}
	}

	if e.logger != nil {
		e.logger.Info("batch completed", "session_id", e.sessionID.String(), "jobs_executed", jobsExecuted)
	}
	e.observer.OnComplete(e.sessionID, uint64(len(e.executionOrder)), jobsExecuted)
	return ExecutionResult{
		AllJobsCompleted: true,
		JobsExecuted:     jobsExecuted,
		Trace:            trace,
		FinalState:       e.snapshot(),
	}, nil
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{States: e.store.AllStates(), Counts: e.store.StateCounts()}
}
