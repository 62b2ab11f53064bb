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

package coordinator

import (
	"testing"

	"nxbatch/internal/batch/session"
	"nxbatch/internal/batch/spec"
)

func TestInferTargetKeywords(t *testing.T) {
	cases := map[string]spec.ComponentType{
		"nx convert --input a.mp4": spec.Convert,
		"nx AudioLab --input a":    spec.AudioLab,
		"nx video --input a":       spec.VideoTrans,
		"nx metafix --input a":     spec.MetaFix,
		"nx unknown --input a":     spec.Convert,
	}
	for cmd, want := range cases {
		if got := InferTarget(cmd); got != want {
			t.Errorf("InferTarget(%q) = %v, want %v", cmd, got, want)
		}
	}
}

func TestPrepareJobSpecsSessionUnmodified(t *testing.T) {
	cmds := []session.ParsedCommand{
		{Command: "convert a", Arguments: []string{"--x"}, Valid: true},
	}
	sess := session.New(cmds)
	before := *sess
	_ = PrepareJobSpecs(sess)
	if !sess.Equal(&before) {
		t.Fatalf("session was mutated by PrepareJobSpecs")
	}
}

func TestPrepareJobSpecsOrderMatchesSession(t *testing.T) {
	cmds := []session.ParsedCommand{
		{Command: "convert a", Valid: true},
		{Command: "audio b", Valid: true},
	}
	sess := session.New(cmds)
	specs := PrepareJobSpecs(sess)
	if len(specs) != len(sess.Jobs) {
		t.Fatalf("expected %d specs, got %d", len(sess.Jobs), len(specs))
	}
	for _, job := range sess.Jobs {
		s, ok := specs[job.JobID]
		if !ok {
			t.Fatalf("missing spec for %v", job.JobID)
		}
		if s.Command != job.Command {
			t.Fatalf("spec command %q != session command %q", s.Command, job.Command)
		}
	}
}
