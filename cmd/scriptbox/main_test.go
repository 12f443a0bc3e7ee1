package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/scriptbox/value"
)

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	script := writeFile(t, "heal.sb", "hp -= 3\nmana = 1\nreturn hp\n")
	entity := writeFile(t, "npc.yaml", "hp: 10\nname: bob\n")

	out, _, err := execute(t, "", "run", script, "--entity", entity)
	require.NoError(t, err)
	assert.Equal(t, "7\nhp: 7\nname: bob\nmana: 1\n", out)
}

func TestRunCommandStdin(t *testing.T) {
	out, _, err := execute(t, "1 + 2 * 3", "run", "-")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		args   []string
		want   string
	}{
		{name: "syntax", script: "let = 1", want: "syntax error at 1:5"},
		{name: "step budget", script: "while (true) {}", args: []string{"--max-steps", "100"}, want: "too complex"},
		{name: "forbidden", script: "self.constructor", want: "forbidden property"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "-"}, tt.args...)
			_, _, err := execute(t, tt.script, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigFile(t *testing.T) {
	config := writeFile(t, "opts.yaml", "facade: npc\nforbid:\n  identifiers: [Math]\n")
	entity := writeFile(t, "npc.yaml", "hp: 2\n")

	out, _, err := execute(t, "npc.hp + this.hp", "run", "-", "--config", config, "--entity", entity)
	require.NoError(t, err)
	assert.Equal(t, "4\nhp: 2\n", out)

	_, _, err = execute(t, "Math", "check", "-", "--config", config)
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "max_steps: -1\n")
	_, _, err = execute(t, "1", "run", "-", "--config", bad)
	assert.ErrorContains(t, err, "max_steps")
}

func TestCheckCommand(t *testing.T) {
	out, _, err := execute(t, "hp + mana", "check", "-")
	require.NoError(t, err)
	assert.Equal(t, "-: ok\n", out)

	out, _, err = execute(t, "let x = hp; x + mana", "check", "-", "--identifiers")
	require.NoError(t, err)
	assert.Equal(t, "hp\nmana\nx\n", out)

	out, _, err = execute(t, "let x = hp; x + mana", "check", "-", "--free")
	require.NoError(t, err)
	assert.Equal(t, "hp\nmana\n", out)

	out, errOut, err := execute(t, "const k = 1\nk = 2", "check", "-")
	require.NoError(t, err)
	assert.Equal(t, "-: ok\n", out)
	assert.Equal(t, "-:2:1: warning: assignment to const \"k\"\n", errOut)

	_, _, err = execute(t, "eval(1)", "check", "-")
	assert.ErrorContains(t, err, "dynamic code evaluation is not allowed")
}

func TestASTCommand(t *testing.T) {
	out, _, err := execute(t, "let a = 1 + 2", "ast", "-")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestNamesCommand(t *testing.T) {
	out, _, err := execute(t, "", "names")
	require.NoError(t, err)
	assert.Contains(t, out, "forbidden_identifiers:")
	assert.Contains(t, out, "- eval")
	assert.Contains(t, out, "forbidden_properties:")

	var names struct {
		Preserved []string `yaml:"preserved"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &names))
	assert.Subset(t, names.Preserved, []string{"self", "this", "abs", "floor", "min", "random"})

	config := writeFile(t, "opts.yaml", "facade: npc\nhelpers: false\n")
	out, _, err = execute(t, "", "names", "--config", config)
	require.NoError(t, err)
	names.Preserved = nil
	require.NoError(t, yaml.Unmarshal([]byte(out), &names))
	assert.Contains(t, names.Preserved, "npc")
	assert.NotContains(t, names.Preserved, "abs")
}

func TestReplCommand(t *testing.T) {
	entity := writeFile(t, "npc.yaml", "hp: 3\n")
	input := strings.Join([]string{
		"let a = 1",
		"a + hp",
		"function f() {",
		"  return 2",
		"}",
		"f()",
		"let a = 2",
		"a",
	}, "\n")

	out, errOut, err := execute(t, input, "repl", "--entity", entity)
	require.NoError(t, err)
	assert.Equal(t, "undefined\n4\nundefined\n2\n1\n", out)
	assert.Contains(t, errOut, "already been declared")
}

func TestEntityRoundTrip(t *testing.T) {
	obj, err := decodeEntity([]byte("name: bob\nhp: 3\ntags: [a, b]\nstats:\n  str: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hp", "name", "stats", "tags"}, obj.Keys())

	_ = obj.Set("alive", value.Bool(true))
	var buf bytes.Buffer
	require.NoError(t, writeEntity(&buf, obj))
	want := "hp: 3\nname: bob\nstats:\n  str: 5\ntags:\n  - a\n  - b\nalive: true\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("writeEntity mismatch (-want +got):\n%s", diff)
	}

	empty, err := decodeEntity(nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	_, err = decodeEntity([]byte("- 1\n- 2\n"))
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	names := []string{"clamp", "hp", "hpMax", "self"}
	tests := []struct {
		line string
		want []string
	}{
		{line: "h", want: []string{"hp", "hpMax"}},
		{line: "x = cl", want: []string{"x = clamp"}},
		{line: "self.", want: nil},
		{line: "zz", want: nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, complete(tt.line, names)); diff != "" {
			t.Errorf("complete(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}
