package rebalance

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// This file tests the examples of the README.md file.
//
// A testable example is a command in a ```bash ... ``` block, starting with
// "rebal", immediately followed by its expected output in a ```console ... ```
// block. Commands run from the module root.

// Command holds a command and its expected output.
type Command struct {
	Cmd      string
	Expected string
}

// buildRebal builds the rebal command and returns the path to the executable.
func buildRebal(t *testing.T) string {
	t.Helper()

	output := filepath.Join(t.TempDir(), "rebal")
	buildCmd := exec.Command("go", "build", "-o", output, "./rebal/")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build rebal command: %v\n%s", err, out)
	}
	return output
}

// parseTestableCommands parses a markdown file to extract commands and their expected outputs.
func parseTestableCommands(t *testing.T, file string) []Command {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	re := regexp.MustCompile("(?m)```bash\\n(rebal.*?)\\n```\\n\\n```console\\n((.|\\n)*?)```")
	var commands []Command
	for _, match := range re.FindAllStringSubmatch(string(content), -1) {
		commands = append(commands, Command{Cmd: match[1], Expected: match[2]})
	}
	return commands
}

func TestReadme(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the rebal command")
	}
	commands := parseTestableCommands(t, "README.md")
	if len(commands) == 0 {
		t.Fatal("no testable command in README.md")
	}
	rebal := buildRebal(t)

	for _, cmd := range commands {
		t.Run(cmd.Cmd, func(t *testing.T) {
			args := strings.Fields(cmd.Cmd)
			command := exec.Command(rebal, args[1:]...)
			command.Env = append(os.Environ(), "REBAL_SNAPSHOT_HEADER=")
			output, err := command.CombinedOutput()
			if err != nil {
				t.Fatalf("failed to run command: %v, output: \n%s", err, output)
			}
			if got := string(output); got != cmd.Expected {
				t.Errorf("expected output:\n%q\nbut got:\n%q", cmd.Expected, got)
			}
		})
	}
}
