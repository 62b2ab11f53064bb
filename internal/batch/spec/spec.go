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

// Package spec 实现 JobExecutionSpec：单个任务不可变、内容哈希化的执行意图
// （design: nx-engine-batch/JobExecutionSpec.h）。
package spec

import (
	"encoding/json"
	"strconv"
	"strings"

	"nxbatch/internal/batch/hash"
)

// ComponentType 是任务的目标组件，取值与规格 §4.3 的稳定整数映射一致。
type ComponentType int

const (
	Convert ComponentType = iota
	AudioLab
	VideoTrans
	MetaFix
)

func (t ComponentType) String() string {
	switch t {
	case Convert:
		return "convert"
	case AudioLab:
		return "audiolab"
	case VideoTrans:
		return "videotrans"
	case MetaFix:
		return "metafix"
	default:
		return "unknown"
	}
}

// FailureStrategy 描述任务失败时批处理应如何反应。
type FailureStrategy int

const (
	Halt FailureStrategy = iota
	Continue
	Skip
)

func (s FailureStrategy) String() string {
	switch s {
	case Halt:
		return "halt"
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// RetryPolicy 是声明式的重试策略；核心本身不据此做出任何自主重试决定（§4.6）。
type RetryPolicy struct {
	MaxAttempts   uint32
	HaltOnFailure bool
}

// Hash 是 JobExecutionSpec 的内容派生身份。它与 hash.JobID 等四种身份类型并列但不互换，
// 因为 JobSpecHash 标识的是"执行意图"而非某个身份类型（design/JobExecutionSpec.h: JobSpecHash）。
type Hash struct{ digest hash.Hash }

// HashFromContent 供依赖声明等场景直接从已知内容派生 Hash。
func HashFromContent(content string) Hash { return Hash{digest: hash.FromContent(content)} }

func (h Hash) String() string            { return h.digest.String() }
func (h Hash) Equal(other Hash) bool     { return h.digest.Equal(other.digest) }
func (h Hash) Less(other Hash) bool      { return h.digest.Less(other.digest) }
func (h Hash) Underlying() hash.Hash     { return h.digest }

// MarshalJSON 委托给底层 hash.Hash 的十六进制编码——digest 字段本身对 encoding/json
// 不可见，必须显式处理，否则会被静默序列化为空对象。
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.digest)
}

// UnmarshalJSON 从十六进制文本形式解码并重建 digest 字段。
func (h *Hash) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &h.digest)
}

// JobExecutionSpec 是单个任务不可变的执行意图。两个 Spec 相等当且仅当所有字段相等；
// Hash 与"全部字段取值"是双射关系（§3）。构造后不提供任何修改方法。
type JobExecutionSpec struct {
	Hash            Hash
	Target          ComponentType
	Command         string
	Arguments       []string
	RetryPolicy     RetryPolicy
	FailureStrategy FailureStrategy
	Dependencies    []Hash
}

// Create 由字段计算内容哈希并构造不可变的 JobExecutionSpec。
func Create(target ComponentType, command string, arguments []string, retryPolicy RetryPolicy, failureStrategy FailureStrategy, dependencies []Hash) JobExecutionSpec {
	args := append([]string(nil), arguments...)
	deps := append([]Hash(nil), dependencies...)
	return JobExecutionSpec{
		Hash:            computeHash(target, command, args, retryPolicy, failureStrategy, deps),
		Target:          target,
		Command:         command,
		Arguments:       args,
		RetryPolicy:     retryPolicy,
		FailureStrategy: failureStrategy,
		Dependencies:    deps,
	}
}

// canonicalize 产出 §4.3 规定的固定字段顺序的规范序列化字节串。
func canonicalize(target ComponentType, command string, arguments []string, retryPolicy RetryPolicy, failureStrategy FailureStrategy, dependencies []Hash) string {
	var b strings.Builder
	b.WriteString("target:")
	b.WriteString(strconv.Itoa(int(target)))
	b.WriteString(";command:")
	b.WriteString(command)
	b.WriteString(";arguments:")
	for _, a := range arguments {
		b.WriteString(a)
		b.WriteByte(',')
	}
	b.WriteString(";retry_policy:")
	b.WriteString(strconv.FormatUint(uint64(retryPolicy.MaxAttempts), 10))
	b.WriteByte(',')
	if retryPolicy.HaltOnFailure {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	b.WriteString(";failure_strategy:")
	b.WriteString(strconv.Itoa(int(failureStrategy)))
	b.WriteString(";dependencies:")
	for _, d := range dependencies {
		b.WriteString(d.String())
		b.WriteByte(',')
	}
	b.WriteByte(';')
	return b.String()
}

func computeHash(target ComponentType, command string, arguments []string, retryPolicy RetryPolicy, failureStrategy FailureStrategy, dependencies []Hash) Hash {
	return Hash{digest: hash.FromContent(canonicalize(target, command, arguments, retryPolicy, failureStrategy, dependencies))}
}

// Equal 报告两个 Spec 在所有字段上是否相等；哈希相等是字段相等的推论，不单独比较哈希。
func (s JobExecutionSpec) Equal(other JobExecutionSpec) bool {
	if s.Target != other.Target || s.Command != other.Command || s.FailureStrategy != other.FailureStrategy {
		return false
	}
	if s.RetryPolicy != other.RetryPolicy {
		return false
	}
	if len(s.Arguments) != len(other.Arguments) || len(s.Dependencies) != len(other.Dependencies) {
		return false
	}
	for i := range s.Arguments {
		if s.Arguments[i] != other.Arguments[i] {
			return false
		}
	}
	for i := range s.Dependencies {
		if !s.Dependencies[i].Equal(other.Dependencies[i]) {
			return false
		}
	}
	return true
}
