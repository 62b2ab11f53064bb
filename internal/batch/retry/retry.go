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

// Package retry 实现显式、外部驱动的重试谱系与append-only执行记录
// （design: nx-engine-batch/RetryEngine.h）。重试执行器自身从不决定是否重试——
// 重试尝试总是由调用方通过 Retry / RetryChain.AddRetry 创建。
package retry

import (
	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
	"nxbatch/internal/batch/state"
	"nxbatch/pkg/log"
)

// RetryAttempt 是重试谱系中的一次尝试。原始尝试没有 parent，retry_index 为 0；
// 每次重试复制 attempt_id 的派生关系并把 retry_index 加一。
type RetryAttempt struct {
	AttemptID       session.SessionJobID
	ParentAttemptID *session.SessionJobID
	RetryIndex      uint32
}

// InitialAttempt 构造某个 SessionJobID 的原始尝试。
func InitialAttempt(attemptID session.SessionJobID) RetryAttempt {
	return RetryAttempt{AttemptID: attemptID, RetryIndex: 0}
}

// Retry 由 prev 派生下一次重试尝试。
func Retry(prev RetryAttempt) RetryAttempt {
	parent := prev.AttemptID
	return RetryAttempt{
		AttemptID:       session.Retry(prev.AttemptID),
		ParentAttemptID: &parent,
		RetryIndex:      prev.RetryIndex + 1,
	}
}

// RetryChain 是某个不可变意图（JobExecutionSpec）上的线性重试谱系。
type RetryChain struct {
	Intent   spec.JobExecutionSpec
	Attempts []RetryAttempt
}

// NewChain 以给定意图和唯一的原始尝试创建一条谱系。
func NewChain(intent spec.JobExecutionSpec, first RetryAttempt) RetryChain {
	return RetryChain{Intent: intent, Attempts: []RetryAttempt{first}}
}

// AddRetry 由谱系中最后一次尝试派生下一次重试，追加到谱系末尾，并返回新的 RetryAttempt。
// Intent 永不改变；谱系要求严格递增的 retry_index 和指向前一次尝试的 parent。
func (c *RetryChain) AddRetry() RetryAttempt {
	prev := c.Attempts[len(c.Attempts)-1]
	next := Retry(prev)
	c.Attempts = append(c.Attempts, next)
	return next
}

// Current 返回谱系中最近一次尝试。
func (c *RetryChain) Current() RetryAttempt { return c.Attempts[len(c.Attempts)-1] }

// Count 返回谱系中尝试的数量。
func (c *RetryChain) Count() int { return len(c.Attempts) }

// DeterministicErrorCode 是失败执行所携带的错误码集合。
type DeterministicErrorCode int

const (
	ErrorNone DeterministicErrorCode = iota
	ErrorInvalidInput
	ErrorProcessingFailed
	ErrorResourceUnavailable
)

func (c DeterministicErrorCode) String() string {
	switch c {
	case ErrorNone:
		return "none"
	case ErrorInvalidInput:
		return "invalid_input"
	case ErrorProcessingFailed:
		return "processing_failed"
	case ErrorResourceUnavailable:
		return "resource_unavailable"
	default:
		return "unknown"
	}
}

// OutcomeKind 区分一次执行尝试的成败。
type OutcomeKind int

const (
	Success OutcomeKind = iota
	Failed
)

func (k OutcomeKind) String() string {
	if k == Success {
		return "success"
	}
	return "failed"
}

// ExecutionOutcome 是一次尝试的结构化结果；None 错误码只在 Success 时出现。
type ExecutionOutcome struct {
	Kind      OutcomeKind
	ErrorCode DeterministicErrorCode
}

// OutcomeFromResult 把一次执行结果映射为确定性结果：success ⇒ Success，
// 否则 ⇒ Failed(ProcessingFailed)（更细粒度的错误码推断留待后续扩展）。
func OutcomeFromResult(result state.JobExecutionResult) ExecutionOutcome {
	if result.Success {
		return ExecutionOutcome{Kind: Success, ErrorCode: ErrorNone}
	}
	return ExecutionOutcome{Kind: Failed, ErrorCode: ErrorProcessingFailed}
}

// ExecutionRecord 是一次尝试的不可变、append-only 记录：不含时间戳、进度或恢复指针。
type ExecutionRecord struct {
	AttemptID       session.SessionJobID
	ParentAttemptID *session.SessionJobID
	RetryIndex      uint32
	Intent          spec.JobExecutionSpec
	Outcome         ExecutionOutcome
}

// Equal 报告两条记录在结构上是否完全相等。
func (r ExecutionRecord) Equal(other ExecutionRecord) bool {
	if !r.AttemptID.Equal(other.AttemptID) || r.RetryIndex != other.RetryIndex {
		return false
	}
	if (r.ParentAttemptID == nil) != (other.ParentAttemptID == nil) {
		return false
	}
	if r.ParentAttemptID != nil && !r.ParentAttemptID.Equal(*other.ParentAttemptID) {
		return false
	}
	return r.Intent.Equal(other.Intent) && r.Outcome == other.Outcome
}

// Recorder 是一个只追加的接收端：record 是唯一操作，没有读取或"最新状态"查询。
type Recorder interface {
	Record(record ExecutionRecord)
}

// InMemoryRecorder 是 Recorder 的参考实现，把记录保存在一个有序切片里供测试检视。
type InMemoryRecorder struct {
	records []ExecutionRecord
}

func (r *InMemoryRecorder) Record(record ExecutionRecord) {
	r.records = append(r.records, record)
}

// Records 返回到目前为止追加的所有记录，顺序与 Record 调用顺序一致。
func (r *InMemoryRecorder) Records() []ExecutionRecord {
	return append([]ExecutionRecord(nil), r.records...)
}

// SingleJobExecutor 是重试执行器委托的单任务执行接口，与引擎消费的执行器接口形状相同。
type SingleJobExecutor interface {
	ExecuteJob(s spec.JobExecutionSpec) state.JobExecutionResult
}

// Executor 把一次重试尝试委托给单任务执行器，并在配置了 recorder 时追加恰好一条记录。
// 它自己从不决定是否需要重试；intent 在每次调用中原样透传。
type Executor struct {
	executor SingleJobExecutor
	recorder Recorder
	logger   *log.Logger
}

// NewExecutor 构造一个 retry.Executor；recorder 为 nil 时不记录任何内容（用于 replay）。
func NewExecutor(executor SingleJobExecutor, recorder Recorder) *Executor {
	return &Executor{executor: executor, recorder: recorder}
}

// SetLogger attaches a structured logger for per-attempt record events.
// A nil logger disables logging; it never changes what gets recorded.
func (e *Executor) SetLogger(l *log.Logger) { e.logger = l }

// Runner 是重试执行的抽象：replay 驱动只依赖这个接口，而不依赖 Executor 的具体实现，
// 使得回放可以注入强制结果的执行器而不触碰真正的单任务执行器或 recorder。
type Runner interface {
	ExecuteRetry(intent spec.JobExecutionSpec, attempt RetryAttempt) state.JobExecutionResult
}

// ExecuteRetry 执行一次尝试并在配置了 recorder 时记录结果。
func (e *Executor) ExecuteRetry(intent spec.JobExecutionSpec, attempt RetryAttempt) state.JobExecutionResult {
	result := e.executor.ExecuteJob(intent)
	outcome := OutcomeFromResult(result)
	if e.recorder != nil {
		e.recorder.Record(ExecutionRecord{
			AttemptID:       attempt.AttemptID,
			ParentAttemptID: attempt.ParentAttemptID,
			RetryIndex:      attempt.RetryIndex,
			Intent:          intent,
			Outcome:         outcome,
		})
	}
	if e.logger != nil {
		e.logger.Info("retry attempt executed", "attempt_id", attempt.AttemptID.String(), "retry_index", attempt.RetryIndex, "outcome", outcome.Kind.String())
	}
	return result
}
