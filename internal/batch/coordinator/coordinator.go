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

// Package coordinator 桥接规划层与执行层：把不可变 Session 的任务描述符转换成孤立的
// JobExecutionSpec，并拼出对应的 ExecutionGraph（design: nx-engine-batch/ExecutionCoordinator.h）。
// 会话本身从不被改写；这里只读取。
package coordinator

import (
	"strings"

	"nxbatch/internal/batch/graph"
	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
)

// DefaultRetryPolicy 是 PrepareJobSpecs 为每个 Spec 使用的重试策略；ParsedCommand 不携带重试策略。
var DefaultRetryPolicy = spec.RetryPolicy{MaxAttempts: 1, HaltOnFailure: true}

// componentKeyword 把命令文本中的关键字映射到目标组件；first match wins，未命中默认 Convert。
var componentKeyword = []struct {
	keyword string
	target  spec.ComponentType
}{
	{"audio", spec.AudioLab},
	{"video", spec.VideoTrans},
	{"meta", spec.MetaFix},
	{"convert", spec.Convert},
}

// InferTarget 由命令文本推断目标组件；大小写不敏感的子串匹配，未命中时落回 Convert
// （规格未规定解析器如何标注 target，这里按原始实现的命令关键字做最小合理推断）。
func InferTarget(command string) spec.ComponentType {
	lower := strings.ToLower(command)
	for _, c := range componentKeyword {
		if strings.Contains(lower, c.keyword) {
			return c.target
		}
	}
	return spec.Convert
}

// PrepareJobSpecs 把会话中的每个存活任务转换为孤立的 JobExecutionSpec，顺序与会话一致。
// 依赖字段取自会话任务描述符的 Dependencies，按其对应 Spec 的哈希解析；若某依赖尚未在
// 映射中给出 Spec（例如调用方只传入部分会话），则该依赖被跳过而不是报错——调用方应保证
// 传入完整会话。
func PrepareJobSpecs(sess *session.Session) map[session.SessionJobID]spec.JobExecutionSpec {
	specs := make(map[session.SessionJobID]spec.JobExecutionSpec, len(sess.Jobs))
	for _, job := range sess.Jobs {
		specs[job.JobID] = spec.Create(
			InferTarget(job.Command),
			job.Command,
			job.Arguments,
			DefaultRetryPolicy,
			spec.Halt,
			dependencyHashes(job.Dependencies, specs),
		)
	}
	return specs
}

func dependencyHashes(deps []session.SessionJobID, known map[session.SessionJobID]spec.JobExecutionSpec) []spec.Hash {
	if len(deps) == 0 {
		return nil
	}
	out := make([]spec.Hash, 0, len(deps))
	for _, d := range deps {
		if s, ok := known[d]; ok {
			out = append(out, s.Hash)
		}
	}
	return out
}

// PrepareJobSpec 解析会话中单个任务的 JobExecutionSpec。
func PrepareJobSpec(sess *session.Session, id session.SessionJobID) (spec.JobExecutionSpec, bool) {
	specs := PrepareJobSpecs(sess)
	s, ok := specs[id]
	return s, ok
}

// BuildGraph 由会话与其合成的 JobExecutionSpec 表构造 ExecutionGraph。
func BuildGraph(sess *session.Session) *graph.ExecutionGraph {
	specs := PrepareJobSpecs(sess)
	return graph.Build(sess, specs)
}
