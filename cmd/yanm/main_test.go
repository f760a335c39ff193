package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frederic-klein/yanm/internal/dist"
)

const testIndex = `[
	{"version": "v21.1.0", "date": "2023-10-24", "files": ["linux-x64"], "lts": false},
	{"version": "v20.9.0", "date": "2023-10-24", "files": ["linux-x64"], "lts": "Iron"},
	{"version": "v18.18.0", "date": "2023-09-18", "files": ["linux-x64"], "lts": "Hydrogen"}
]`

// run executes the root command with the given arguments against root.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--dir", root}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func setup(t *testing.T) (root, work string) {
	t.Helper()
	t.Setenv("YANM_NODE_MIRROR", "")
	tmp := t.TempDir()
	root = filepath.Join(tmp, "root")
	work = filepath.Join(tmp, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(work)
	return root, work
}

func TestAliasCommands(t *testing.T) {
	root, _ := setup(t)

	out, err := run(t, root, "alias")
	if err != nil || !strings.Contains(out, "No aliases defined.") {
		t.Fatalf("alias = %q, %v", out, err)
	}

	if _, err := run(t, root, "alias", "stable", "16.0.0"); err != nil {
		t.Fatalf("alias stable 16.0.0 error = %v", err)
	}
	if _, err := run(t, root, "alias", "default", "20"); err != nil {
		t.Fatalf("alias default 20 error = %v", err)
	}

	out, err = run(t, root, "alias")
	if err != nil {
		t.Fatalf("alias error = %v", err)
	}
	if out != "default -> 20\nstable -> 16.0.0\n" {
		t.Errorf("alias output = %q", out)
	}

	out, _ = run(t, root, "alias", "stable")
	if out != "stable -> 16.0.0\n" {
		t.Errorf("alias stable = %q", out)
	}

	if _, err := run(t, root, "alias", "broken", "lts"); !errors.Is(err, dist.ErrInvalidVersion) {
		t.Errorf("alias to keyword error = %v, want ErrInvalidVersion", err)
	}

	if _, err := run(t, root, "unalias", "stable"); err != nil {
		t.Fatalf("unalias error = %v", err)
	}
	if _, err := run(t, root, "unalias", "stable"); !errors.Is(err, dist.ErrAlias) {
		t.Errorf("second unalias error = %v, want ErrAlias", err)
	}
}

func TestUseAndCurrent(t *testing.T) {
	root, _ := setup(t)

	out, err := run(t, root, "current")
	if err != nil || out != "none\n" {
		t.Fatalf("current = %q, %v", out, err)
	}

	if _, err := run(t, root, "use", "18"); !errors.Is(err, dist.ErrVersionNotInstalled) {
		t.Errorf("use 18 error = %v, want ErrVersionNotInstalled", err)
	}

	for _, v := range []string{"16.0.0", "18.2.0"} {
		if err := os.MkdirAll(filepath.Join(root, "versions", v, "bin"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	out, err = run(t, root, "use", "v18")
	if err != nil || out != "Now using Node.js v18.2.0\n" {
		t.Fatalf("use v18 = %q, %v", out, err)
	}
	out, _ = run(t, root, "use", "18.2.0")
	if out != "Already using Node.js v18.2.0\n" {
		t.Errorf("second use = %q", out)
	}

	out, _ = run(t, root, "current")
	if out != "v18.2.0\n" {
		t.Errorf("current = %q", out)
	}

	out, _ = run(t, root, "list")
	if out != "* 18.2.0\n  16.0.0\n" {
		t.Errorf("list = %q", out)
	}

	if _, err := run(t, root, "uninstall", "18.2.0"); !errors.Is(err, dist.ErrVersionInUse) {
		t.Errorf("uninstall active error = %v, want ErrVersionInUse", err)
	}
	out, err = run(t, root, "uninstall", "16")
	if err != nil || out != "Uninstalled Node.js v16.0.0\n" {
		t.Errorf("uninstall 16 = %q, %v", out, err)
	}
}

func TestLocalAndWhich(t *testing.T) {
	root, work := setup(t)

	out, err := run(t, root, "which")
	if err != nil || out != "No version selected\n" {
		t.Fatalf("which = %q, %v", out, err)
	}

	out, err = run(t, root, "local", "v18.2.0")
	if err != nil {
		t.Fatalf("local error = %v", err)
	}
	path := filepath.Join(work, ".nvmrc")
	if out != "Wrote 18.2.0 to "+path+"\n" {
		t.Errorf("local = %q", out)
	}

	out, _ = run(t, root, "which")
	if out != "18.2.0 (from project "+path+", not installed)\n" {
		t.Errorf("which = %q", out)
	}

	if err := os.MkdirAll(filepath.Join(root, "versions", "18.2.0"), 0o755); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, root, "which")
	if out != "v18.2.0 (from project "+path+")\n" {
		t.Errorf("which after install = %q", out)
	}
}

func TestListRemote(t *testing.T) {
	root, _ := setup(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(testIndex))
	}))
	defer server.Close()
	if err := os.MkdirAll(filepath.Join(root, "versions", "20.9.0"), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, root, "--mirror", server.URL, "list", "--remote", "--lts")
	if err != nil {
		t.Fatalf("list --remote --lts error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  v18.18.0") || !strings.Contains(lines[0], "LTS: Hydrogen") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  v20.9.0") || !strings.HasSuffix(lines[1], "(installed)") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestInvalidMirror(t *testing.T) {
	root, _ := setup(t)

	_, err := run(t, root, "--mirror", "ftp://example.com", "list", "--remote")

	if !errors.Is(err, dist.ErrConfig) {
		t.Errorf("error = %v, want ErrConfig", err)
	}
}
