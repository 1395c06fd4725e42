package main

import (
	"bytes"
	"strings"
	"testing"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMapCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"quadrant", []string{"map", "--viewport", "800x600", "600", "150"}, "0.5 0.5 0\n", false},
		{"with depth", []string{"map", "--viewport", "800x600", "200", "450", "2"}, "-0.5 -0.5 2\n", false},
		{"default viewport", []string{"map", "0", "600"}, "-1 -1 0\n", false},
		{"center", []string{"map", "400", "300"}, "0 0 0\n", false},
		{"negative zero depth", []string{"map", "--", "400", "300", "-0"}, "0 0 0\n", false},
		{"bad viewport", []string{"map", "--viewport", "800", "1", "1"}, "", true},
		{"bad coordinate", []string{"map", "x", "1"}, "", true},
		{"too few args", []string{"map", "1"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseViewport(t *testing.T) {
	tests := []struct {
		in      string
		w, h    float32
		wantErr bool
	}{
		{"800x600", 800, 600, false},
		{"1280X720", 1280, 720, false},
		{"0x600", 0, 0, true},
		{"800by600", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseViewport(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseViewport(%q) = %v, %v", tt.in, w, h)
			}
		})
	}
}

func TestKernelCommand(t *testing.T) {
	out, err := execute(t, "kernel", "--invocations", "1")
	if err != nil {
		t.Fatal(err)
	}

	rows := map[string][]string{}
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			rows[f[0]] = f
		}
	}
	if f := rows["invocations"]; len(f) != 2 || f[1] != "1" {
		t.Errorf("invocations row = %v", f)
	}
	if f := rows["accumulator"]; len(f) != 2 || f[1] != "5" {
		t.Errorf("accumulator row = %v", f)
	}
	// record 0 after one pass: position (0.5, 1, 0), color (0, 1, 1.5)
	want := "0 (0.5, 1, 0) (0, 1, 1.5)"
	if !strings.Contains(strings.Join(strings.Fields(out), " "), want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func TestKernelCommandRejectsNegative(t *testing.T) {
	if _, err := execute(t, "kernel", "-n", "-1"); err == nil {
		t.Error("expected an error for negative invocations")
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	for _, key := range []string{"interactive", "model", "simple", "texture", "storage_kernel", "storage_draw"} {
		if !strings.Contains(out, key) {
			t.Errorf("output has no row for %s:\n%s", key, out)
		}
	}
	if strings.Contains(out, "FAIL") {
		t.Errorf("a shader failed:\n%s", out)
	}
}
