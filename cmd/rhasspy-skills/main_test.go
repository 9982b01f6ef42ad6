package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"rhasspy-skills": func() {
			os.Exit(run())
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Keep the user config dir (settings, clone cache) inside WORK.
			e.Setenv("HOME", e.WorkDir)
			e.Setenv("XDG_CONFIG_HOME", filepath.Join(e.WorkDir, ".config"))

			srv := httptest.NewServer(newSkillsService(e.WorkDir))
			e.Defer(srv.Close)
			e.Setenv("SKILLS_HOST", srv.URL)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// setup-skill-repo creates a local git repo with one folder per skill.
			// Usage: setup-skill-repo <dir> <skill-name...>
			// Each skill has a manifest with a "city" option defaulting to Rome.
			"setup-skill-repo": cmdSetupSkillRepo,
		},
	})
}

// newSkillsService fakes the skills API. Every request is appended to
// <workDir>/requests.log; uploads also log the file name and archive
// entries. GET /api/skills serves <workDir>/skills.json when present.
func newSkillsService(workDir string) http.Handler {
	var mu sync.Mutex
	logRequest := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		f, err := os.OpenFile(filepath.Join(workDir, "requests.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		defer f.Close()
		fmt.Fprintln(f, line)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/skills":
			file, header, err := r.FormFile("file")
			if err != nil {
				logRequest(line + " error=" + err.Error())
				http.Error(w, "missing file", http.StatusBadRequest)
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			entries, err := core.ListTar(data)
			list := strings.Join(entries, ",")
			if err != nil {
				list = "unreadable"
			}
			logRequest(fmt.Sprintf("%s file=%s type=%s entries=%s", line, header.Filename, header.Header.Get("Content-Type"), list))
			if strings.HasPrefix(header.Filename, "broken") {
				http.Error(w, "install failed", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, "installed")

		case r.Method == http.MethodGet && r.URL.Path == "/api/skills":
			logRequest(line)
			data, err := os.ReadFile(filepath.Join(workDir, "skills.json"))
			if err != nil {
				data = []byte("[]")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)

		case len(parts) >= 3 && parts[2] == "missing":
			logRequest(line)
			http.Error(w, "skill missing not found", http.StatusNotFound)

		case r.Method == http.MethodDelete && len(parts) == 3:
			logRequest(line)
			fmt.Fprintf(w, "uninstalled %s", parts[2])

		case r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "start":
			logRequest(line)
			fmt.Fprintf(w, "started %s", parts[2])

		case r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "stop":
			logRequest(line)
			fmt.Fprintf(w, "stopped %s", parts[2])

		default:
			logRequest(line)
			http.NotFound(w, r)
		}
	})
}

// cmdSetupSkillRepo creates a local git repo holding skill folders.
func cmdSetupSkillRepo(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("setup-skill-repo does not support negation")
	}
	if len(args) < 1 {
		ts.Fatalf("usage: setup-skill-repo <dir> [skill-name...]")
	}

	dir := ts.MkAbs(args[0])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		ts.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# skills\n"), 0o644); err != nil {
		ts.Fatalf("writing README: %v", err)
	}

	for _, name := range args[1:] {
		skillDir := filepath.Join(dir, name)
		if err := os.MkdirAll(skillDir, 0o755); err != nil {
			ts.Fatalf("creating skill dir: %v", err)
		}
		manifest := map[string]any{
			"name":           name,
			"slug":           name,
			"version":        "1.0.0",
			"languages":      []string{"en"},
			"default_config": map[string]any{"city": "Rome"},
			"schema_config":  map[string]any{"city": "string"},
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(manifest); err != nil {
			ts.Fatalf("marshaling manifest: %v", err)
		}
		if err := os.WriteFile(filepath.Join(skillDir, core.ManifestFileName), buf.Bytes(), 0o644); err != nil {
			ts.Fatalf("writing manifest: %v", err)
		}
		if err := os.WriteFile(filepath.Join(skillDir, "main.py"), []byte("print('"+name+"')\n"), 0o644); err != nil {
			ts.Fatalf("writing main.py: %v", err)
		}
	}

	gitEnv := append(os.Environ(),
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)

	runGit := func(gitArgs ...string) {
		c := exec.Command("git", gitArgs...)
		c.Dir = dir
		c.Env = gitEnv
		out, err := c.CombinedOutput()
		if err != nil {
			ts.Fatalf("git %v: %v\n%s", gitArgs, err, out)
		}
	}

	runGit("init")
	runGit("checkout", "-b", "main")
	runGit("add", ".")
	runGit("commit", "-m", "initial")
}
