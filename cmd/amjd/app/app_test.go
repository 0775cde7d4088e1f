package app

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/events"
	"github.com/agentstation/amjd/pkg/sources"
)

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	isolate(t)
	logger := zerolog.Nop()
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", append([]Option{WithLogger(&logger)}, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
	if app.Ephemeris() == nil {
		t.Error("Ephemeris() returned nil")
	}
	if app.Metrics() != app.Metrics() {
		t.Error("Metrics() returned different registries")
	}
}

func TestApp_WithEphemerisNil(t *testing.T) {
	isolate(t)
	if _, err := New("dev", "", "", "", WithEphemeris(nil)); !errors.IsValidationError(err) {
		t.Errorf("New(WithEphemeris(nil)) error = %v, want validation error", err)
	}
}

func TestApp_Sources_Override(t *testing.T) {
	app := newTestApp(t, WithConfig(&Config{
		DataDir: "data",
		Sources: map[sources.ID]string{sources.VolcanoID: "v/*.csv"},
	}))

	src, ok := app.Sources().Get(sources.VolcanoID)
	if !ok {
		t.Fatal("volcano source missing")
	}
	fs, ok := src.(*sources.FileSource)
	if !ok {
		t.Fatalf("volcano source is %T, want *sources.FileSource", src)
	}
	if got := fs.Path(); got != filepath.Join("data", "v/*.csv") {
		t.Errorf("volcano path = %q", got)
	}
}

// TestApp_Store_NotConfigured verifies Store is nil without a SQLite path.
func TestApp_Store_NotConfigured(t *testing.T) {
	app := newTestApp(t)

	st, err := app.Store()
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if st != nil {
		t.Error("Store() should be nil when no SQLite path is configured")
	}
}

// TestApp_Store_Singleton verifies concurrent callers share one store.
func TestApp_Store_Singleton(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, WithConfig(&Config{DataDir: dir, SQLitePath: "events.db"}))
	if got := app.SQLitePath(); got != filepath.Join(dir, "events.db") {
		t.Errorf("SQLitePath() = %q", got)
	}

	first, err := app.Store()
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := app.Store()
			if err != nil {
				t.Errorf("Store() failed: %v", err)
				return
			}
			if st != first {
				t.Error("Store() returned a different instance")
			}
		}()
	}
	wg.Wait()

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() failed: %v", err)
	}
}

// TestApp_Index_FromStore verifies the store takes precedence over the CSV.
func TestApp_Index_FromStore(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, WithConfig(&Config{DataDir: dir, SQLitePath: "events.db", IndexOutput: "missing.csv"}))
	defer app.Shutdown(context.Background())

	st, err := app.Store()
	if err != nil {
		t.Fatal(err)
	}
	x := events.NewIndex()
	rec, _ := x.GetOrCreate("SE_2024_04_08")
	kind := "solar_eclipse"
	rec.Kind = &kind
	if err := st.SaveIndex(context.Background(), "run-1", x); err != nil {
		t.Fatal(err)
	}

	got, err := app.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() failed: %v", err)
	}
	if _, ok := got.Get("SE_2024_04_08"); !ok {
		t.Error("Index() did not return the stored event")
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExecute_ConvertJSON(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "convert", "2025-10-09", "-o", "json")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	var got struct {
		Time struct {
			JD float64 `json:"jd"`
			AM float64 `json:"am"`
		} `json:"time"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Time.JD != 2460958.5 || got.Time.AM != 739288.5 {
		t.Errorf("JD/AM = %v/%v, want 2460958.5/739288.5", got.Time.JD, got.Time.AM)
	}
}

func TestExecute_InvalidFormat(t *testing.T) {
	app := newTestApp(t)

	if _, err := execute(t, app, "version", "-o", "xml"); err == nil {
		t.Error("expected an error for -o xml")
	}
}

func TestExecute_Version(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "version", "-o", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["version"] != "1.0.0" || got["commit"] != "abc123" {
		t.Errorf("version output = %v", got)
	}
}

func TestExecute_DataDirFlag(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	if _, err := execute(t, app, "version", "--data-dir", dir); err != nil {
		t.Fatal(err)
	}
	if app.DataDir() != dir {
		t.Errorf("DataDir() = %q, want %q", app.DataDir(), dir)
	}
	if got := app.IndexPath(); filepath.Dir(got) != dir {
		t.Errorf("IndexPath() = %q, want it under %q", got, dir)
	}
}

func TestServerConfig(t *testing.T) {
	app := newTestApp(t, WithConfig(&Config{Server: ServerConfig{Port: 9000, CORSOrigins: []string{"*"}}}))

	cfg := app.serverConfig()
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.Host == "" || cfg.PathPrefix == "" || cfg.CacheTTL == 0 || cfg.RequestTimeout == 0 {
		t.Errorf("zero settings should keep defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestExecute_Completion(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "completion", "bash")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("amjd")) {
		t.Error("bash completion script does not mention amjd")
	}
	if _, err := execute(t, app, "completion", "tcsh"); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
