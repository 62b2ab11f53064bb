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

package main

import (
	"bufio"
	"os"
	"strings"

	"nxbatch/internal/batch/session"
)

// loadCommands reads one command per line from path. Blank lines and lines
// starting with "#" are skipped entirely (never become ParsedCommand entries,
// valid or not). A line prefixed with "!" is marked invalid — this is the only
// validity signal this CLI's minimal parser understands; a real parser is an
// external collaborator of the core, not part of it.
func loadCommands(path string) ([]session.ParsedCommand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var commands []session.ParsedCommand
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		valid := true
		if strings.HasPrefix(line, "!") {
			valid = false
			line = strings.TrimSpace(strings.TrimPrefix(line, "!"))
		}
		fields := strings.Fields(line)
		var arguments []string
		if len(fields) > 1 {
			arguments = fields[1:]
		}
		commands = append(commands, session.ParsedCommand{
			Command:   line,
			Arguments: arguments,
			Valid:     valid,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return commands, nil
}
