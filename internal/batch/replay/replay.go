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

// Package replay 实现离线重放驱动：对持久化的 ExecutionRecord 序列重新执行并做结构化
// 比较，检测任何确定性偏差（design: nx-engine-batch/ReplayDriver.h）。重放从不根据
// 历史结果跳过执行，也从不写入任何 recorder。
package replay

import (
	"sort"
	"strconv"

	"nxbatch/internal/batch/retry"
	"nxbatch/internal/batch/session"
	"nxbatch/pkg/log"
)

// replaySessionID 是重放执行使用的固定会话标识——重放与产生记录时的原始会话无关，
// 用一个常量值即可保证确定性。
const replaySessionID session.ID = "replay-session"

// Source 提供持久化记录的全量有序序列。
type Source interface {
	LoadAll() []retry.ExecutionRecord
}

// InMemorySource 是 Source 的参考实现：把记录保存在内存里按加载顺序返回。
type InMemorySource struct {
	records []retry.ExecutionRecord
}

// NewInMemorySource 用给定的记录序列构造一个内存回放源。
func NewInMemorySource(records []retry.ExecutionRecord) *InMemorySource {
	return &InMemorySource{records: append([]retry.ExecutionRecord(nil), records...)}
}

func (s *InMemorySource) LoadAll() []retry.ExecutionRecord {
	return append([]retry.ExecutionRecord(nil), s.records...)
}

// Mismatch 描述重放结果与持久化结果之间的单点偏差。
type Mismatch struct {
	RetryIndex uint32
	Expected   retry.ExecutionOutcome
	Actual     retry.ExecutionOutcome
}

// Report 是重放校验的结果：要么完全匹配，要么携带全部偏差。
type Report struct {
	DeterministicMatch bool
	Mismatches         []Mismatch
}

// Success 构造一个完全匹配的回放报告。
func Success() Report { return Report{DeterministicMatch: true} }

// Divergence 构造一个携带给定偏差列表的回放报告。
func Divergence(mismatches []Mismatch) Report {
	return Report{DeterministicMatch: false, Mismatches: mismatches}
}

// Driver 离线重放持久化记录并验证确定性；它不持有任何运行时引擎引用。
type Driver struct {
	executor retry.Runner
	logger   *log.Logger
}

// NewDriver 用给定的重试执行器构造一个 Driver；该执行器只用于重放校验，不应挂接
// 任何 recorder。
func NewDriver(executor retry.Runner) *Driver {
	return &Driver{executor: executor}
}

// SetLogger attaches a structured logger that reports each detected mismatch.
// A nil logger disables logging; it never affects the returned Report.
func (d *Driver) SetLogger(l *log.Logger) { d.logger = l }

// ReplayAndVerify 加载全部记录，按加载顺序逐条重新执行，并与持久化结果比较。
// 重放从不因为历史结果而跳过执行。
func (d *Driver) ReplayAndVerify(source Source) Report {
	records := source.LoadAll()
	if len(records) == 0 {
		return Success()
	}

	// 预留步骤：按 intent.hash 分组并在组内按 retry_index 排序，为未来的谱系级校验
	// 做准备；当前的结果比对不消费这个分组。
	_ = GroupByIntentHash(records)

	var mismatches []Mismatch
	for _, record := range records {
		attemptID := session.InitialSessionJobID(replaySessionID, replayJobValue(record.RetryIndex))
		fresh := retry.RetryAttempt{AttemptID: attemptID, RetryIndex: record.RetryIndex}

		result := d.executor.ExecuteRetry(record.Intent, fresh)
		actual := retry.OutcomeFromResult(result)
		if actual != record.Outcome {
			if d.logger != nil {
				d.logger.Warn("replay divergence", "retry_index", record.RetryIndex, "expected", record.Outcome.Kind.String(), "actual", actual.Kind.String())
			}
			mismatches = append(mismatches, Mismatch{
				RetryIndex: record.RetryIndex,
				Expected:   record.Outcome,
				Actual:     actual,
			})
		}
	}

	if len(mismatches) == 0 {
		return Success()
	}
	return Divergence(mismatches)
}

func replayJobValue(retryIndex uint32) string {
	return "replay-" + strconv.FormatUint(uint64(retryIndex), 10)
}

// IntentGroup is a retry chain's worth of records sharing the same intent hash,
// sorted by retry_index — the groundwork the spec requires preserving even though
// the outcome check above does not consume it.
type IntentGroup struct {
	IntentHash string
	Records    []retry.ExecutionRecord
}

// GroupByIntentHash groups records by their intent's content hash and sorts both
// the groups (by hash value) and each group's records (by retry_index), so the
// result never depends on map iteration order.
func GroupByIntentHash(records []retry.ExecutionRecord) []IntentGroup {
	byHash := make(map[string][]retry.ExecutionRecord)
	for _, r := range records {
		key := r.Intent.Hash.String()
		byHash[key] = append(byHash[key], r)
	}

	groups := make([]IntentGroup, 0, len(byHash))
	for hash, recs := range byHash {
		sorted := append([]retry.ExecutionRecord(nil), recs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].RetryIndex < sorted[j].RetryIndex })
		groups = append(groups, IntentGroup{IntentHash: hash, Records: sorted})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].IntentHash < groups[j].IntentHash })
	return groups
}
