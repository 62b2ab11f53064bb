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

package session

import (
	"fmt"

	"nxbatch/internal/batch/hash"
)

// JobState 是 BatchPlan 中单条任务的状态。Queued 被保留给未来的分阶段规划场景
// （本参考实现在 PlanBatch 中直接产出 Planned/Rejected，不经过 Queued — DESIGN.md Open Question (b)）。
type JobState int

const (
	JobQueued JobState = iota
	JobPlanned
	JobRejected
)

func (s JobState) String() string {
	switch s {
	case JobQueued:
		return "queued"
	case JobPlanned:
		return "planned"
	case JobRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// BatchJobSummary 是 BatchPlan 中的一条记录：独立于 Session 的 JobID、原始命令与状态。
type BatchJobSummary struct {
	JobID   hash.JobID
	Command string
	State   JobState
}

// BatchPlan 是每条输入命令一条记录、按输入顺序排列的稳定规划结果。
type BatchPlan struct {
	Jobs []BatchJobSummary
}

// Equal 报告两个 BatchPlan 是否结构相等。
func (p BatchPlan) Equal(other BatchPlan) bool {
	if len(p.Jobs) != len(other.Jobs) {
		return false
	}
	for i := range p.Jobs {
		a, b := p.Jobs[i], other.Jobs[i]
		if !a.JobID.Equal(b.JobID) || a.Command != b.Command || a.State != b.State {
			return false
		}
	}
	return true
}

// PlanBatch 为每条输入命令生成一条 BatchJobSummary，顺序与输入一致。
// 每条记录的 JobID 由 "索引||命令" 的内容派生，与会话任务身份（SessionJobID）相互独立，
// 即便两者在某次调用中巧合地指向同一批命令（Open Question (a)：规格刻意不强制二者相等）。
func PlanBatch(cmds []ParsedCommand) BatchPlan {
	plan := BatchPlan{Jobs: make([]BatchJobSummary, 0, len(cmds))}
	for i, c := range cmds {
		state := JobPlanned
		if !c.Valid {
			state = JobRejected
		}
		jobID := hash.JobIDFromContent(fmt.Sprintf("%d||%s", i, c.Command))
		plan.Jobs = append(plan.Jobs, BatchJobSummary{
			JobID:   jobID,
			Command: c.Command,
			State:   state,
		})
	}
	return plan
}
