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

// Package hash 提供批处理执行核心的内容派生身份：SHA-256 摘要与按摘要排序/比较。
// 所有身份类型（JobID/RunID/NodeID/ArtifactID）都是对 Hash 的不同封装，互不可比（design/identity.md）。
package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Size 是 SHA-256 摘要的字节长度。
const Size = sha256.Size

// Hash 是 32 字节的原始摘要；文本形式为 64 个小写十六进制字符。
type Hash [Size]byte

// Sum256 计算 data 的 SHA-256 摘要（FIPS 180-4，大端字序，标准填充）。
func Sum256(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// FromContent 对 s 的 UTF-8 字节计算摘要；纯函数，无错误。
func FromContent(s string) Hash {
	return Sum256([]byte(s))
}

// String 返回 64 字符的小写十六进制形式。
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Equal 报告两个摘要是否字节相等。
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// Compare 对摘要的原始字节做字典序比较，返回 -1/0/1。
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Less 报告 h 是否在字典序上先于 other；供需要总序的容器使用。
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// IsZero 报告 h 是否为全零摘要（未初始化）。
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// FromHex 把 64 字符的小写十六进制字符串解析回 Hash；用于从持久化记录反序列化。
func FromHex(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("hash: invalid hex: %w", err)
	}
	if len(raw) != Size {
		return Hash{}, fmt.Errorf("hash: expected %d bytes, got %d", Size, len(raw))
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// MarshalJSON 把摘要编码为其十六进制文本形式，而不是默认的数值数组。
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON 从十六进制文本形式解码摘要。
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := FromHex(s)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}
