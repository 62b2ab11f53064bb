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

package hash

import "encoding/json"

// JobID、RunID、NodeID、ArtifactID 是四个独立的身份类型，均由内容派生；
// 刻意不使用一个共享的泛型包装，以便编译期就能防止把一种身份误用成另一种（design/identity.md "deep class hierarchy" 笔记）。

// JobID 标识一个批处理任务。
type JobID struct{ digest Hash }

// JobIDFromContent 由字符串内容派生 JobID。
func JobIDFromContent(content string) JobID {
	return JobID{digest: FromContent(content)}
}

// Hash 返回底层摘要。
func (id JobID) Hash() Hash { return id.digest }

// String 返回十六进制文本形式。
func (id JobID) String() string { return id.digest.String() }

// Equal 报告两个 JobID 是否相等。
func (id JobID) Equal(other JobID) bool { return id.digest.Equal(other.digest) }

// Less 提供总序，供需要稳定迭代的容器使用。
func (id JobID) Less(other JobID) bool { return id.digest.Less(other.digest) }

func (id JobID) MarshalJSON() ([]byte, error)    { return json.Marshal(id.digest) }
func (id *JobID) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &id.digest) }

// RunID 标识一次执行运行。
type RunID struct{ digest Hash }

// RunIDFromContent 由字符串内容派生 RunID。
func RunIDFromContent(content string) RunID {
	return RunID{digest: FromContent(content)}
}

func (id RunID) Hash() Hash             { return id.digest }
func (id RunID) String() string         { return id.digest.String() }
func (id RunID) Equal(other RunID) bool { return id.digest.Equal(other.digest) }
func (id RunID) Less(other RunID) bool  { return id.digest.Less(other.digest) }

func (id RunID) MarshalJSON() ([]byte, error)    { return json.Marshal(id.digest) }
func (id *RunID) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &id.digest) }

// NodeID 标识执行图中的一个节点。
type NodeID struct{ digest Hash }

// NodeIDFromContent 由字符串内容派生 NodeID。
func NodeIDFromContent(content string) NodeID {
	return NodeID{digest: FromContent(content)}
}

func (id NodeID) Hash() Hash              { return id.digest }
func (id NodeID) String() string          { return id.digest.String() }
func (id NodeID) Equal(other NodeID) bool { return id.digest.Equal(other.digest) }
func (id NodeID) Less(other NodeID) bool  { return id.digest.Less(other.digest) }

func (id NodeID) MarshalJSON() ([]byte, error)    { return json.Marshal(id.digest) }
func (id *NodeID) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &id.digest) }

// ArtifactID 标识一个执行产物。
type ArtifactID struct{ digest Hash }

// ArtifactIDFromContent 由字符串内容派生 ArtifactID。
func ArtifactIDFromContent(content string) ArtifactID {
	return ArtifactID{digest: FromContent(content)}
}

func (id ArtifactID) Hash() Hash                  { return id.digest }
func (id ArtifactID) String() string              { return id.digest.String() }
func (id ArtifactID) Equal(other ArtifactID) bool { return id.digest.Equal(other.digest) }
func (id ArtifactID) Less(other ArtifactID) bool  { return id.digest.Less(other.digest) }

func (id ArtifactID) MarshalJSON() ([]byte, error)    { return json.Marshal(id.digest) }
func (id *ArtifactID) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &id.digest) }
