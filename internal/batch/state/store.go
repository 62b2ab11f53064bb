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

package state

import (
	"fmt"

	"nxbatch/internal/batch/graph"
	"nxbatch/internal/batch/session"
)

// StateStore 持有一张图中每个节点的 ExecutionJobState，顺序与图的节点顺序一致。
// 构造时所有条目都是 Planned；之后只能通过 Update 以合法迁移推进。
type StateStore struct {
	order   []session.SessionJobID
	entries map[session.SessionJobID]ExecutionJobState
}

// NewStore 为图中的每个节点创建一个 Planned 状态条目。
func NewStore(g *graph.ExecutionGraph) *StateStore {
	s := &StateStore{
		order:   make([]session.SessionJobID, 0, g.NodeCount()),
		entries: make(map[session.SessionJobID]ExecutionJobState, g.NodeCount()),
	}
	for _, n := range g.Nodes {
		s.order = append(s.order, n.JobID)
		s.entries[n.JobID] = NewPlanned(n.JobID)
	}
	return s
}

// Get 返回某个任务当前的状态快照。
func (s *StateStore) Get(id session.SessionJobID) (ExecutionJobState, error) {
	st, ok := s.entries[id]
	if !ok {
		return ExecutionJobState{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return st, nil
}

// Update 用调用方已经计算好的新状态替换某个任务的条目；新旧状态之间的迁移必须合法，
// 否则返回 ErrInvalidTransition 且不修改存储内容。StateStore 本身不负责产生新状态——
// 那是 ExecutionJobState.ToRunning/ToCompleted/ToFailed 的职责，这里只校验并落盘。
func (s *StateStore) Update(next ExecutionJobState) error {
	cur, ok := s.entries[next.JobID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, next.JobID)
	}
	if !legal(cur.CurrentState, next.CurrentState) {
		return fmt.Errorf("%w: %s -> %s for job %s", ErrInvalidTransition, cur.CurrentState, next.CurrentState, next.JobID)
	}
	s.entries[next.JobID] = next
	return nil
}

// AllStates 按图的节点顺序返回所有条目的快照。
func (s *StateStore) AllStates() []ExecutionJobState {
	out := make([]ExecutionJobState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// StateCounts 按状态统计条目数量。
func (s *StateStore) StateCounts() map[ExecutionState]int {
	counts := make(map[ExecutionState]int, 4)
	for _, id := range s.order {
		counts[s.entries[id].CurrentState]++
	}
	return counts
}

// TotalCount 返回条目总数。
func (s *StateStore) TotalCount() int { return len(s.order) }

// AllTerminal 报告是否所有条目都已到达终态（Completed 或 Failed）。
func (s *StateStore) AllTerminal() bool {
	for _, id := range s.order {
		if !s.entries[id].IsTerminal() {
			return false
		}
	}
	return true
}
