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

import "testing"

func TestFromContentDeterministic(t *testing.T) {
	a := FromContent("convert --input x.mp4")
	b := FromContent("convert --input x.mp4")
	if !a.Equal(b) {
		t.Fatalf("FromContent not stable across calls: %v != %v", a, b)
	}
}

func TestFromContentDistinctInputsDiverge(t *testing.T) {
	a := FromContent("convert")
	b := FromContent("audiolab")
	if a.Equal(b) {
		t.Fatalf("distinct inputs hashed equal")
	}
}

func TestStringFormIsLowercaseHex64(t *testing.T) {
	h := FromContent("anything")
	s := h.String()
	if len(s) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(s))
	}
	for _, r := range s {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
		if !isHex {
			t.Fatalf("non lowercase-hex rune %q in %s", r, s)
		}
	}
}

func TestIdentityTypesAreIndependent(t *testing.T) {
	content := "job-001"
	job := JobIDFromContent(content)
	run := RunIDFromContent(content)
	// Same content, same underlying digest, but the Go type system keeps them
	// from being compared directly — this only checks the shared digest.
	if job.Hash() != run.Hash() {
		t.Fatalf("expected identical digest for identical content across identity types")
	}
	if job.String() != run.Hash().String() {
		t.Fatalf("String() should mirror the underlying digest's hex form")
	}
}

func TestCompareIsLexicographicOnBytes(t *testing.T) {
	a := FromContent("a")
	b := FromContent("b")
	if a.Compare(a) != 0 {
		t.Fatalf("Compare(a, a) != 0")
	}
	if a.Compare(b) == 0 {
		t.Fatalf("distinct hashes compared equal")
	}
	// Less must be a strict total order: exactly one of a<b, b<a holds.
	if a.Less(b) == b.Less(a) {
		t.Fatalf("Less is not antisymmetric for distinct hashes")
	}
	// Byte-wise lexicographic order is the order of the lowercase hex forms.
	if (a.Compare(b) < 0) != (a.String() < b.String()) {
		t.Fatalf("Compare disagrees with byte-wise lexicographic order")
	}
}
