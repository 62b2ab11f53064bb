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

// Package graph 实现 ExecutionGraph：会话的结构化镜像，携带依赖向量与到
// JobExecutionSpec 的查找表，供执行引擎按固定顺序驱动（design: nx-engine-batch/ExecutionGraph.h）。
package graph

import (
	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
)

// ExecutionNode 是图中的一个节点：任务身份与其依赖。
type ExecutionNode struct {
	JobID        session.SessionJobID
	Dependencies []session.SessionJobID
}

// ExecutionGraph 是会话的有序结构镜像；长度与顺序都与会话的任务列表一致（§3 不变量）。
type ExecutionGraph struct {
	Nodes []ExecutionNode
	specs map[session.SessionJobID]spec.JobExecutionSpec
}

// New 由节点序列与 job_id -> JobExecutionSpec 的桥接表构造 ExecutionGraph。
func New(nodes []ExecutionNode, specs map[session.SessionJobID]spec.JobExecutionSpec) *ExecutionGraph {
	cp := make(map[session.SessionJobID]spec.JobExecutionSpec, len(specs))
	for k, v := range specs {
		cp[k] = v
	}
	return &ExecutionGraph{Nodes: append([]ExecutionNode(nil), nodes...), specs: cp}
}

// Build 从 Session 构造 ExecutionGraph：节点数量与顺序镜像 session.Jobs，
// 依赖直接取自各任务描述符（§4.2 "结构镜像"不变量）。
func Build(sess *session.Session, specs map[session.SessionJobID]spec.JobExecutionSpec) *ExecutionGraph {
	nodes := make([]ExecutionNode, 0, len(sess.Jobs))
	for _, job := range sess.Jobs {
		nodes = append(nodes, ExecutionNode{
			JobID:        job.JobID,
			Dependencies: append([]session.SessionJobID(nil), job.Dependencies...),
		})
	}
	return New(nodes, specs)
}

// Node 按 SessionJobID 查找节点。
func (g *ExecutionGraph) Node(id session.SessionJobID) (ExecutionNode, bool) {
	for _, n := range g.Nodes {
		if n.JobID.Equal(id) {
			return n, true
		}
	}
	return ExecutionNode{}, false
}

// Spec 按 SessionJobID 解析对应的 JobExecutionSpec；引擎执行节点前据此解析意图。
func (g *ExecutionGraph) Spec(id session.SessionJobID) (spec.JobExecutionSpec, bool) {
	s, ok := g.specs[id]
	return s, ok
}

// NodeCount 返回节点数量。
func (g *ExecutionGraph) NodeCount() int { return len(g.Nodes) }

// Equal 报告两个 ExecutionGraph 在节点序列上是否结构相等（不比较内部 specs 映射的顺序，
// 因为规格未将 specs 映射的迭代顺序纳入确定性契约）。
func (g *ExecutionGraph) Equal(other *ExecutionGraph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.Nodes) != len(other.Nodes) {
		return false
	}
	for i := range g.Nodes {
		a, b := g.Nodes[i], other.Nodes[i]
		if !a.JobID.Equal(b.JobID) || len(a.Dependencies) != len(b.Dependencies) {
			return false
		}
		for j := range a.Dependencies {
			if !a.Dependencies[j].Equal(b.Dependencies[j]) {
				return false
			}
		}
	}
	return true
}
