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

import "testing"

func twoValidCommands() []ParsedCommand {
	return []ParsedCommand{
		{Command: "nx convert --input test.mp4 --output test.mkv", Arguments: []string{"--input", "test.mp4", "--output", "test.mkv"}, Valid: true},
		{Command: "nx audio --input test.wav --output test.flac", Arguments: []string{"--input", "test.wav", "--output", "test.flac"}, Valid: true},
	}
}

func TestPlanBatchIsIdempotent(t *testing.T) {
	cmds := twoValidCommands()
	a := PlanBatch(cmds)
	b := PlanBatch(cmds)
	if !a.Equal(b) {
		t.Fatalf("PlanBatch(cmds) != PlanBatch(cmds)")
	}
}

func TestPlanBatchMarksValidCommandsPlanned(t *testing.T) {
	plan := PlanBatch(twoValidCommands())
	if len(plan.Jobs) != 2 {
		t.Fatalf("expected 2 plan entries, got %d", len(plan.Jobs))
	}
	for _, j := range plan.Jobs {
		if j.State != JobPlanned {
			t.Fatalf("expected Planned state for valid command, got %v", j.State)
		}
	}
}

func TestSessionDeterminism(t *testing.T) {
	cmds := twoValidCommands()
	a := New(cmds)
	b := New(cmds)
	if !a.Equal(b) {
		t.Fatalf("New(cmds) != New(cmds)")
	}
	if a.Jobs[0].JobID.JobValue != "job-001" || a.Jobs[1].JobID.JobValue != "job-002" {
		t.Fatalf("unexpected job values: %v", a.Jobs)
	}
}

func TestMixedValidityDropsInvalidFromSession(t *testing.T) {
	cmds := []ParsedCommand{
		{Command: "cmd-a", Valid: true},
		{Command: "cmd-b", Valid: false},
		{Command: "cmd-c", Valid: true},
	}
	plan := PlanBatch(cmds)
	if len(plan.Jobs) != 3 {
		t.Fatalf("expected 3 plan entries, got %d", len(plan.Jobs))
	}
	wantStates := []JobState{JobPlanned, JobRejected, JobPlanned}
	for i, want := range wantStates {
		if plan.Jobs[i].State != want {
			t.Fatalf("plan.Jobs[%d].State = %v, want %v", i, plan.Jobs[i].State, want)
		}
	}

	sess := New(cmds)
	if len(sess.Jobs) != 2 {
		t.Fatalf("expected 2 surviving session jobs, got %d", len(sess.Jobs))
	}
	if sess.Jobs[0].Command != "cmd-a" || sess.Jobs[1].Command != "cmd-c" {
		t.Fatalf("session jobs map to wrong commands: %+v", sess.Jobs)
	}
	if sess.Jobs[0].JobID.JobValue != "job-001" || sess.Jobs[1].JobID.JobValue != "job-002" {
		t.Fatalf("unexpected job values after drop: %+v", sess.Jobs)
	}
}

func TestSessionJobIDOrdering(t *testing.T) {
	sid := ID("s1")
	a := InitialSessionJobID(sid, "job-001")
	b := Retry(a)
	if b.AttemptIndex != 1 {
		t.Fatalf("Retry did not increment attempt index: %+v", b)
	}
	if b.Session != a.Session || b.JobValue != a.JobValue {
		t.Fatalf("Retry must preserve session and job_value: %+v vs %+v", a, b)
	}
	if !a.Less(b) {
		t.Fatalf("expected attempt 0 to order before attempt 1")
	}
}
