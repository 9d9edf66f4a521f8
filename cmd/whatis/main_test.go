package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `package p;

public class A {
    static int count;

    int next() {
        return count + 1;
    }
}
`

func project(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "p", "A.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(sampleSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".whatis.yaml"), []byte("sources: .\nlog:\n  verbosity: -4\n"), 0o644))
	return dir, file
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	dir, file := project(t)
	config := filepath.Join(dir, ".whatis.yaml")

	out, err := run(t, "--config", config, "resolve", file, "7:16")
	require.NoError(t, err)
	assert.Equal(t, "static field p.A.count : int\ndeclared at "+file+":4:16\n", out)

	out, err = run(t, "--config", config, "resolve", "--json", file, "7:16")
	require.NoError(t, err)
	var got resolution
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, resolution{
		Kind:       "field",
		Text:       "field p.A.count : int",
		Name:       "count",
		Descriptor: "I",
		Owner:      "p/A",
		Location:   file + ":4:16",
	}, got)

	_, err = run(t, "--config", config, "resolve", file, "nope")
	assert.Error(t, err)
}

func TestResolveCommandPrintsDoc(t *testing.T) {
	dir, _ := project(t)
	file := filepath.Join(dir, "p", "B.java")
	require.NoError(t, os.WriteFile(file, []byte("package p;\n\n/** Counts {@code A} calls. */\npublic class B {\n    B self;\n}\n"), 0o644))

	out, err := run(t, "--config", filepath.Join(dir, ".whatis.yaml"), "resolve", file, "5:5")
	require.NoError(t, err)
	assert.Equal(t, "public class p.B\nextends java.lang.Object\ndeclared at "+file+":4:14\n\nCounts `A` calls.\n", out)
}

func TestTreeCommand(t *testing.T) {
	dir, file := project(t)
	config := filepath.Join(dir, ".whatis.yaml")

	out, err := run(t, "--config", config, "tree", file)
	require.NoError(t, err)
	assert.Contains(t, out, "PackageDecl")
	assert.Contains(t, out, "ClassDecl")

	out, err = run(t, "--config", config, "tree", "--cst", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"token": "count"`)
	assert.Contains(t, out, `"kind": "ClassBody"`)
}

func TestParsePosition(t *testing.T) {
	content := []byte("ab\ncd\n")
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "0", want: 0},
		{arg: "4", want: 4},
		{arg: "2:2", want: 4},
		{arg: "6", wantErr: true},
		{arg: "-1", wantErr: true},
		{arg: "x:1", wantErr: true},
		{arg: "1:y", wantErr: true},
		{arg: "9:1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parsePosition(content, tt.arg)
		if tt.wantErr {
			assert.Error(t, err, tt.arg)
			continue
		}
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}
}
