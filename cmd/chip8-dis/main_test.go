package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDisassemble(t *testing.T) {
	rom := []byte{
		0x00, 0xe0, // CLS
		0xa2, 0x0a, // LD I, 0x20a
		0xd0, 0x15, // DRW V0, V1, 5
		0x12, 0x06, // JP 0x206
		0x51, 0x21, // not an instruction
		0xf0,
	}

	var buf bytes.Buffer
	if err := disassemble(&buf, rom, 0x200); err != nil {
		t.Fatal(err)
	}

	want := "" +
		"200  00e0  CLS\n" +
		"202  a20a  LD I, 0x20a\n" +
		"204  d015  DRW V0, V1, 5\n" +
		"206  1206  JP 0x206\n" +
		"208  5121  DW 0x5121\n" +
		"20a  f0    DB 0xf0\n"

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +have):\n%s", diff)
	}
}

func TestRootCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ch8")
	if err := os.WriteFile(path, []byte{0x00, 0xe0, 0x13, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{path}, "200  00e0  CLS\n202  1300  JP 0x300\n"},
		{[]string{"--origin", "0x300", path}, "300  00e0  CLS\n302  1300  JP 0x300\n"},
		{[]string{"word", "00ee", "6a05"}, "00ee  RET\n6a05  LD VA, 0x05\n"},
	}

	for _, tt := range tests {
		var out bytes.Buffer

		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(tt.args)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}

		if diff := cmp.Diff(tt.want, out.String()); diff != "" {
			t.Fatalf("%v: output mismatch (-want +have):\n%s", tt.args, diff)
		}
	}
}

func TestRootCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	rom := filepath.Join(dir, "test.ch8")
	if err := os.WriteFile(rom, []byte{0x00, 0xe0}, 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	listing := filepath.Join(dir, "out", "test.txt")

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--out", listing, rom})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(listing)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "200  00e0  CLS\n" || out.Len() != 0 {
		t.Fatalf("want listing in file only; have file %q, stdout %q", data, out.String())
	}
}
