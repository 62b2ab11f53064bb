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
	"strings"

	"nxbatch/internal/batch/hash"
)

// SessionJobDescriptor 描述会话中的一个存活任务：身份、命令、参数与依赖。
type SessionJobDescriptor struct {
	JobID        SessionJobID
	Command      string
	Arguments    []string
	Dependencies []SessionJobID
}

// Session 是不可变的规划产物：一个会话 ID 加一组按输入顺序排列的存活任务描述符。
type Session struct {
	ID   ID
	Jobs []SessionJobDescriptor
}

// DeriveID 从命令列表确定性地派生会话 ID：规范拼接 "cmd0|args0;cmd1|args1;…" 后做内容哈希，
// 以十六进制文本呈现。相同命令列表在任意主机、任意运行上总是派生出相同的 ID。
func DeriveID(cmds []ParsedCommand) ID {
	var b strings.Builder
	for _, c := range cmds {
		b.WriteString(c.Command)
		b.WriteByte('|')
		b.WriteString(strings.Join(c.Arguments, ","))
		b.WriteByte(';')
	}
	return ID(hash.FromContent(b.String()).String())
}

// New 使用由命令列表派生的确定性会话 ID 创建 Session。
func New(cmds []ParsedCommand) *Session {
	return NewWithID(DeriveID(cmds), cmds)
}

// NewWithID 使用调用方提供的会话 ID 创建 Session（例如重放时使用固定的会话 ID）。
// 只有 valid 的命令会出现在 Jobs 中，按输入顺序排列；job_value 在存活命令间从 1 开始编号，
// 形如 "job-001"、"job-002"。
func NewWithID(id ID, cmds []ParsedCommand) *Session {
	sess := &Session{ID: id}
	survivorIndex := 0
	for _, c := range cmds {
		if !c.Valid {
			continue
		}
		survivorIndex++
		jobValue := fmt.Sprintf("job-%03d", survivorIndex)
		sess.Jobs = append(sess.Jobs, SessionJobDescriptor{
			JobID:     InitialSessionJobID(id, jobValue),
			Command:   c.Command,
			Arguments: append([]string(nil), c.Arguments...),
		})
	}
	return sess
}

// Equal 报告两个 Session 是否结构相等：同一 ID 且任务描述符逐一相等。
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.ID != other.ID || len(s.Jobs) != len(other.Jobs) {
		return false
	}
	for i := range s.Jobs {
		if !descriptorsEqual(s.Jobs[i], other.Jobs[i]) {
			return false
		}
	}
	return true
}

func descriptorsEqual(a, b SessionJobDescriptor) bool {
	if !a.JobID.Equal(b.JobID) || a.Command != b.Command || len(a.Arguments) != len(b.Arguments) || len(a.Dependencies) != len(b.Dependencies) {
		return false
	}
	for i := range a.Arguments {
		if a.Arguments[i] != b.Arguments[i] {
			return false
		}
	}
	for i := range a.Dependencies {
		if !a.Dependencies[i].Equal(b.Dependencies[i]) {
			return false
		}
	}
	return true
}

// Descriptor 按 SessionJobID 查找任务描述符；未找到返回 (zero, false)。
// 这是对规格 BatchPlan 摘要形状的补充访问器（原始实现中的 BatchJobDetail 不改变 BatchPlan 本身）。
func (s *Session) Descriptor(id SessionJobID) (SessionJobDescriptor, bool) {
	for _, d := range s.Jobs {
		if d.JobID.Equal(id) {
			return d, true
		}
	}
	return SessionJobDescriptor{}, false
}
