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

// Package session 实现批处理核心的规划层：不可变 Session、每会话任务身份 SessionJobID，
// 以及从 ParsedCommand 序列合成 Session 与 BatchPlan（design: nx-engine-batch/SessionTypes.h）。
package session

import "fmt"

// ID 即规格中的 SessionId：封装字符串值，全序为字符串的字典序。
type ID string

// Less 报告 id 是否在字典序上先于 other。
func (id ID) Less(other ID) bool { return id < other }

// String 返回会话 ID 的文本形式。
func (id ID) String() string { return string(id) }

// SessionJobID 是会话内每次执行尝试的身份：(session, job_value, attempt_index)。
// 全序为该三元组的字典序；attempt_index=0 表示原始尝试。
type SessionJobID struct {
	Session      ID
	JobValue     string
	AttemptIndex uint32
}

// InitialSessionJobID 构造原始尝试（attempt_index = 0）。
func InitialSessionJobID(session ID, jobValue string) SessionJobID {
	return SessionJobID{Session: session, JobValue: jobValue, AttemptIndex: 0}
}

// Retry 由 prev 派生下一次重试尝试：复制 session/job_value，attempt_index 加一。
func Retry(prev SessionJobID) SessionJobID {
	return SessionJobID{Session: prev.Session, JobValue: prev.JobValue, AttemptIndex: prev.AttemptIndex + 1}
}

// Equal 报告两个 SessionJobID 是否在三个字段上都相等。
func (id SessionJobID) Equal(other SessionJobID) bool {
	return id.Session == other.Session && id.JobValue == other.JobValue && id.AttemptIndex == other.AttemptIndex
}

// Less 实现 (session, job_value, attempt_index) 的字典序总序。
func (id SessionJobID) Less(other SessionJobID) bool {
	if id.Session != other.Session {
		return id.Session < other.Session
	}
	if id.JobValue != other.JobValue {
		return id.JobValue < other.JobValue
	}
	return id.AttemptIndex < other.AttemptIndex
}

// String 返回便于日志/追踪展示的文本形式，不作为身份比较使用。
func (id SessionJobID) String() string {
	return fmt.Sprintf("%s/%s#%d", id.Session, id.JobValue, id.AttemptIndex)
}
