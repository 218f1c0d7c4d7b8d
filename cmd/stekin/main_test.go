package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseTree(t *testing.T) {
	out, _, err := run(t, "x: 1\n", "parse")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.TrimSpace(out); got != "{NameDef(x, Int(1))}" {
		t.Errorf("got %q", got)
	}
}

func TestParseReportsDiagnostics(t *testing.T) {
	_, stderr, err := run(t, "x: )\n", "parse")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(stderr, "unexpected token") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestFmt(t *testing.T) {
	out, _, err := run(t, "x: 1+2*3\n", "fmt")
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if out != "x: 1 + (2 * 3)\n" {
		t.Errorf("got %q", out)
	}
}

func TestFmtWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.stkn")
	if err := os.WriteFile(path, []byte("y:  2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "", "fmt", "-w", path); err != nil {
		t.Fatalf("fmt -w: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "y: 2\n" {
		t.Errorf("file = %q", data)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ok.stkn"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "", "check", dir); err != nil {
		t.Fatalf("check clean dir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.stkn"), []byte("if x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "", "check", "-q", dir)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	if !strings.Contains(out, "bad.stkn") {
		t.Errorf("out = %q", out)
	}
}

func TestTokensGrammar(t *testing.T) {
	out, _, err := run(t, "a: 1\n", "tokens", "--grammar")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	for _, want := range []string{`Ident "a"`, `Punct ":"`, `Int "1"`, "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s:\n%s", want, out)
		}
	}
}

func TestGrammarCheck(t *testing.T) {
	out, _, err := run(t, "", "grammar", "check")
	if err != nil {
		t.Fatalf("grammar check: %v", err)
	}
	if !strings.Contains(out, "productions ok") {
		t.Errorf("out = %q", out)
	}
}
