package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/internal/output"
	"github.com/spf13/cobra"
)

// collection is an in-memory stand-in for the json-server users endpoint
type collection struct {
	mu       sync.Mutex
	users    map[string]models.User
	nextID   int
	requests int
	failIDs  map[string]bool
}

func newCollection(t *testing.T, n int) (*collection, *httptest.Server) {
	t.Helper()
	c := &collection{users: make(map[string]models.User), failIDs: make(map[string]bool)}
	for i := 1; i <= n; i++ {
		id := strconv.Itoa(i)
		c.users[id] = models.User{ID: models.ID(id), FirstName: "User", LastName: "Number", Email: fmt.Sprintf("u%d@example.com", i)}
	}
	c.nextID = n + 1

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", c.list)
	mux.HandleFunc("POST /users", c.create)
	mux.HandleFunc("GET /users/{id}", c.get)
	mux.HandleFunc("PUT /users/{id}", c.update)
	mux.HandleFunc("DELETE /users/{id}", c.remove)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests++
		c.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return c, ts
}

func (c *collection) requestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

func (c *collection) user(id string) (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	return u, ok
}

func (c *collection) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}

func (c *collection) sorted() []models.User {
	out := make([]models.User, 0, len(c.users))
	for _, u := range c.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID.String())
		b, _ := strconv.Atoi(out[j].ID.String())
		return a < b
	})
	return out
}

func (c *collection) list(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("_per_page"))
	all := c.sorted()
	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	json.NewEncoder(w).Encode(map[string]any{"data": all[start:end], "items": len(all)})
}

func (c *collection) get(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[r.PathValue("id")]
	if !ok {
		http.Error(w, `{"message":"User not found"}`, http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(u)
}

func (c *collection) create(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var d models.Draft
	json.NewDecoder(r.Body).Decode(&d)
	u := userFromDraft(strconv.Itoa(c.nextID), d)
	c.nextID++
	c.users[u.ID.String()] = u
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

func (c *collection) update(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := c.users[id]; !ok {
		http.Error(w, `{"message":"User not found"}`, http.StatusNotFound)
		return
	}
	var d models.Draft
	json.NewDecoder(r.Body).Decode(&d)
	u := userFromDraft(id, d)
	c.users[id] = u
	json.NewEncoder(w).Encode(u)
}

func (c *collection) remove(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := r.PathValue("id")
	if c.failIDs[id] {
		http.Error(w, `{"message":"locked"}`, http.StatusConflict)
		return
	}
	if _, ok := c.users[id]; !ok {
		http.Error(w, `{"message":"User not found"}`, http.StatusNotFound)
		return
	}
	delete(c.users, id)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{}`))
}

func userFromDraft(id string, d models.Draft) models.User {
	dept := d.Department
	return models.User{ID: models.ID(id), FirstName: d.FirstName, LastName: d.LastName, Email: d.Email, Department: &dept}
}

// useConfig points the commands at apiURL with a temp journal
func useConfig(t *testing.T, apiURL string) {
	t.Helper()
	prev := cfg
	cfg = &models.Config{
		APIURL:      apiURL,
		PageSize:    10,
		JournalPath: filepath.Join(t.TempDir(), "activity.db"),
	}
	t.Cleanup(func() { cfg = prev })
}

// captureOutput swaps the output writers for buffers
func captureOutput(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := output.Stdout, output.Stderr
	output.Stdout, output.Stderr = stdout, stderr
	t.Cleanup(func() { output.Stdout, output.Stderr = prevOut, prevErr })
	return stdout, stderr
}

// setFlags sets flags on cmd and restores their defaults afterwards
func setFlags(t *testing.T, cmd *cobra.Command, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		f := cmd.Flags().Lookup(k)
		if f == nil {
			t.Fatalf("flag --%s not defined on %s", k, cmd.Name())
		}
		def := f.DefValue
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatalf("set --%s: %v", k, err)
		}
		t.Cleanup(func() {
			cmd.Flags().Set(k, def)
			f.Changed = false
		})
	}
}

func TestJournalDisabled(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"off", true},
		{"none", true},
		{"/tmp/activity.db", false},
	}
	for _, tt := range tests {
		if got := journalDisabled(tt.path); got != tt.want {
			t.Errorf("journalDisabled(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// overrideCmd mirrors the root persistent flags on a throwaway command
func overrideCmd() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("api-url", "", "")
	c.Flags().Int("page-size", 0, "")
	c.Flags().Duration("timeout", 0, "")
	c.Flags().String("log-file", "", "")
	c.Flags().String("journal", "", "")
	return c
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"api_url":"http://file.example/users","page_size":20}`), 0644); err != nil {
		t.Fatal(err)
	}
	prev := configPath
	configPath = path
	t.Cleanup(func() { configPath = prev })

	t.Setenv("USERDASH_PAGE_SIZE", "30")

	c := overrideCmd()
	c.Flags().Set("api-url", "http://flag.example/users")
	c.Flags().Set("timeout", "2s")

	got, err := loadConfig(c)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.APIURL != "http://flag.example/users" {
		t.Errorf("api url: got %q", got.APIURL)
	}
	if got.PageSize != 30 {
		t.Errorf("page size: env should beat file, got %d", got.PageSize)
	}
	if got.RequestTimeout != 2*time.Second {
		t.Errorf("timeout: got %v", got.RequestTimeout)
	}
}

func TestLoadConfigClampsPageSizeFlag(t *testing.T) {
	prev := configPath
	configPath = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { configPath = prev })

	c := overrideCmd()
	c.Flags().Set("page-size", "500")
	got, err := loadConfig(c)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.PageSize != models.MaxPageSize {
		t.Errorf("page size: got %d, want %d", got.PageSize, models.MaxPageSize)
	}
}

func TestLoadConfigRejectsNegativeTimeout(t *testing.T) {
	prev := configPath
	configPath = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { configPath = prev })

	c := overrideCmd()
	c.Flags().Set("timeout", "-1s")
	if _, err := loadConfig(c); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestUsesTerminal(t *testing.T) {
	if !usesTerminal(rootCmd) || !usesTerminal(dashCmd) {
		t.Error("root and dash run the dashboard")
	}
	if usesTerminal(usersListCmd) || usesTerminal(activityCmd) {
		t.Error("subcommands write to stdout")
	}
}

func TestRootInstallsSetup(t *testing.T) {
	if rootCmd.PersistentPreRunE == nil {
		t.Fatal("root command has no pre-run hook")
	}
	for _, c := range []*cobra.Command{usersListCmd, activityPruneCmd, configPathCmd} {
		if c.Root() != rootCmd {
			t.Errorf("%s is not attached to the root command", c.Name())
		}
	}
}

func TestPersistentFlagsDefined(t *testing.T) {
	for _, name := range []string{"config", "api-url", "page-size", "timeout", "log-file", "journal", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag to be defined", name)
		}
	}
}

func TestNormalizeFlag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"api_url", "api-url"},
		{"page_size", "page-size"},
		{"timeout", "timeout"},
	}
	for _, tt := range tests {
		if got := string(normalizeFlag(nil, tt.in)); got != tt.want {
			t.Errorf("normalizeFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJournalFlagOff(t *testing.T) {
	prev := configPath
	configPath = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { configPath = prev })
	t.Setenv("USERDASH_JOURNAL", "")

	got, err := loadConfig(overrideCmd())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if journalDisabled(got.JournalPath) {
		t.Errorf("an unset journal path should fall back to the default, got %q", got.JournalPath)
	}

	c := overrideCmd()
	c.Flags().Set("journal", "off")
	got, err = loadConfig(c)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !journalDisabled(got.JournalPath) {
		t.Errorf("--journal off should disable the journal, got %q", got.JournalPath)
	}
}
