package mealplan

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type cliEnv struct {
	dir    string
	config string
	db     string
}

// newCLIEnv points the CLI at a private config and database and pins the
// clock. Commands share package-level flag state, so these tests are not
// parallel.
func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MEALPLAN_HOME", dir)
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("MEALPLAN_STORAGE_DRIVER", "")
	env := cliEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "mealplan.db"),
	}
	if err := os.WriteFile(env.config, []byte("weather:\n  geo_lookup: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	prev := nowFunc
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { nowFunc = prev })
	return env
}

func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	resetFlags(rootCmd, rootCmd)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", e.config, "--db", e.db, "--quiet"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func (e cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestRootHelp(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun(t, "--help")
	if !strings.Contains(out, "mealplan") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	env := newCLIEnv(t)
	for i := 0; i < 2; i++ {
		out := env.mustRun(t, "init")
		if !strings.Contains(out, "Initialized mealplan storage") {
			t.Fatalf("init run %d: unexpected output %q", i+1, out)
		}
	}
	if _, err := os.Stat(env.db); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestMealAndExerciseShowUpInPlan(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "meal", "add", "--slot", "lunch", "--name", "Caesar salad", "--calories", "420", "--protein", "30")
	env.mustRun(t, "exercise", "add", "--type", "cardio", "--duration", "30", "--intensity", "high", "--recurring", "weekly", "--days", "mon,wed")

	out := env.mustRun(t, "plan", "show", "--date", "2024-06-01")
	for _, want := range []string{"2024-06-01", "Caesar salad  420 kcal  P 30g", "cardio 30 min (high)  repeats weekly on Mon,Wed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plan show missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "summary", "--json")
	if !strings.Contains(out, `"calories": 420`) || !strings.Contains(out, `"exercise_minutes": 30`) {
		t.Fatalf("unexpected summary json:\n%s", out)
	}

	out = env.mustRun(t, "plan", "calendar", "--month", "2024-06")
	if !strings.Contains(out, "June 2024") || !strings.Contains(out, " 1•") {
		t.Fatalf("expected marked calendar day:\n%s", out)
	}
}

func TestMealAddValidation(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "", "meal", "add", "--slot", "brunch", "--name", "Eggs"); err == nil {
		t.Fatalf("expected invalid slot to fail")
	}
	if _, err := env.run(t, "", "meal", "add", "--slot", "lunch", "--name", "Soup", "--calories", "-5"); err == nil {
		t.Fatalf("expected negative calories to fail")
	}
	if _, err := env.run(t, "", "exercise", "add", "--type", "cardio", "--duration", "0"); err == nil {
		t.Fatalf("expected zero duration to fail")
	}
	for _, args := range [][]string{
		{"meal", "add", "--slot", "lunch", "--name", "Soup", "--calories", "NaN"},
		{"exercise", "add", "--type", "cardio", "--duration", "NaN"},
		{"exercise", "add", "--type", "cardio", "--duration", "+Inf"},
		{"profile", "set", "--name", "A", "--height", "Inf", "--weight", "70"},
	} {
		if _, err := env.run(t, "", args...); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
	out := env.mustRun(t, "meal", "add", "--slot", "lunch", "--name", "Soup", "--calories", "200")
	if !strings.Contains(out, "Added Soup") {
		t.Fatalf("expected later save to succeed:\n%s", out)
	}
}

func TestWeatherWatchRejectsNonPositiveIntervals(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "", "weather", "watch", "--forecast-every", "0"); err == nil {
		t.Fatalf("expected zero forecast interval to fail")
	}
	if _, err := env.run(t, "", "weather", "watch", "--sun-every", "-1m"); err == nil {
		t.Fatalf("expected negative sun interval to fail")
	}
}

func TestTemplateScalesPortions(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "template", "add", "--name", "Oats", "--slot", "breakfast", "--calories", "300", "--portions", "1")
	out := env.mustRun(t, "template", "list")
	if !strings.Contains(out, "Oats\tbreakfast\t300\t1") {
		t.Fatalf("unexpected template list:\n%s", out)
	}
	env.mustRun(t, "meal", "add", "--template", "oats", "--portions", "2", "--date", "2024-06-02")
	out = env.mustRun(t, "plan", "show", "--date", "2024-06-02")
	if !strings.Contains(out, "Oats  600 kcal  x2") {
		t.Fatalf("expected scaled template meal:\n%s", out)
	}
}

func TestProfileDerivesBMI(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun(t, "profile", "set", "--name", "A", "--age", "30", "--height", "180", "--weight", "81")
	if !strings.Contains(out, "BMI     25.0") {
		t.Fatalf("expected bmi 25.0:\n%s", out)
	}
	out = env.mustRun(t, "profile", "show")
	if !strings.Contains(out, "Height  180.0 cm") {
		t.Fatalf("expected persisted profile:\n%s", out)
	}
}

func TestThemeSetAndReject(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "theme", "set", "dark")
	out := env.mustRun(t, "theme", "show")
	if !strings.HasPrefix(out, "dark") {
		t.Fatalf("expected dark theme, got %q", out)
	}
	if _, err := env.run(t, "", "theme", "set", "neon"); err == nil {
		t.Fatalf("expected unknown theme to fail")
	}
}

func TestOneShotUndoIsNoOp(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "meal", "add", "--slot", "dinner", "--name", "Pasta")
	out := env.mustRun(t, "undo")
	if !strings.Contains(out, "Nothing to undo") {
		t.Fatalf("expected empty history in a fresh process, got %q", out)
	}
	out = env.mustRun(t, "plan", "show")
	if !strings.Contains(out, "Pasta") {
		t.Fatalf("expected meal to survive no-op undo:\n%s", out)
	}
}

func TestShellKeepsHistoryAcrossCommands(t *testing.T) {
	env := newCLIEnv(t)
	script := strings.Join([]string{
		`meal add --slot lunch --name "Caesar salad" --calories 420`,
		`undo`,
		`plan show`,
		`redo`,
		`history`,
		`history --clear`,
		`undo`,
		`meal add --slot brunch --name x`,
		`exit`,
	}, "\n")
	out, err := env.run(t, script, "shell")
	if err != nil {
		t.Fatalf("shell failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Added Caesar salad to lunch", "Undone", "nothing planned", "Redone", "Undo: 1\nRedo: 0\nSlot writes: 3", "History cleared\nUndo: 0\nRedo: 0", "Nothing to undo", "error: invalid meal slot"} {
		if !strings.Contains(out, want) {
			t.Fatalf("shell output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "plan", "show")
	if !strings.Contains(out, "Caesar salad") {
		t.Fatalf("expected redone meal to be persisted:\n%s", out)
	}
}

func TestDoctorFixMergesDuplicateDates(t *testing.T) {
	env := newCLIEnv(t)
	in := filepath.Join(env.dir, "dupes.json")
	payload := `{"format_version":1,"dayPlans":[
 {"id":"p1","date":"2024-06-01","meals":{"breakfast":[{"id":"m1","name":"Toast","type":"breakfast"}],"lunch":[],"dinner":[],"snack":[]},"exercises":[]},
 {"id":"p2","date":"2024-06-01","meals":{"breakfast":[],"lunch":[{"id":"m2","name":"Soup","type":"lunch"}],"dinner":[],"snack":[]},"exercises":[]}
],"mealTemplates":[],"userProfile":null,"theme":"default"}`
	if err := os.WriteFile(in, []byte(payload), 0o644); err != nil {
		t.Fatalf("write import: %v", err)
	}
	env.mustRun(t, "import", "--in", in, "--mode", "replace")

	out, err := env.run(t, "", "doctor")
	if err == nil {
		t.Fatalf("expected doctor to flag duplicate dates:\n%s", out)
	}
	if !strings.Contains(out, "Duplicate dates: 1") {
		t.Fatalf("unexpected doctor output:\n%s", out)
	}
	out = env.mustRun(t, "doctor", "--fix")
	if !strings.Contains(out, "Merged plans: 1") {
		t.Fatalf("expected merge report:\n%s", out)
	}
	out = env.mustRun(t, "plan", "show")
	if !strings.Contains(out, "Toast") || !strings.Contains(out, "Soup") {
		t.Fatalf("expected merged plan to carry both meals:\n%s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "meal", "add", "--slot", "snack", "--name", "Apple", "--calories", "95")
	env.mustRun(t, "theme", "set", "colorful")
	out := filepath.Join(env.dir, "export.json")
	env.mustRun(t, "export", "--out", out)

	other := env
	other.db = filepath.Join(env.dir, "other.db")
	report := other.mustRun(t, "import", "--in", out, "--dry-run")
	if !strings.Contains(report, "Import dry run: inserted=1") {
		t.Fatalf("unexpected dry run report %q", report)
	}
	if show := other.mustRun(t, "plan", "show"); strings.Contains(show, "Apple") {
		t.Fatalf("dry run must not write:\n%s", show)
	}
	other.mustRun(t, "import", "--in", out)
	if show := other.mustRun(t, "plan", "show"); !strings.Contains(show, "Apple  95 kcal") {
		t.Fatalf("expected imported meal:\n%s", show)
	}
	if hist := other.mustRun(t, "history"); !strings.Contains(hist, "Slot writes: 1") {
		t.Fatalf("expected import to be a single slot write:\n%s", hist)
	}

	csvPath := filepath.Join(env.dir, "export.csv")
	env.mustRun(t, "export", "--format", "csv", "--out", csvPath)
	b, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.Contains(string(b), "2024-06-01,meal,snack,Apple,95") {
		t.Fatalf("unexpected csv:\n%s", b)
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "meal", "add", "--slot", "breakfast", "--name", "Eggs")
	dir := filepath.Join(env.dir, "backups")
	out := env.mustRun(t, "backup", "create", "--dir", dir)
	if !strings.Contains(out, "Created backup: "+filepath.Join(dir, "mealplan-20240601-090000.json")) {
		t.Fatalf("unexpected backup output:\n%s", out)
	}
	out = env.mustRun(t, "backup", "list", "--dir", dir)
	if !strings.Contains(out, "mealplan-20240601-090000.json") {
		t.Fatalf("expected backup in list:\n%s", out)
	}

	other := env
	other.db = filepath.Join(env.dir, "restored.db")
	other.mustRun(t, "backup", "restore", "--file", filepath.Join(dir, "mealplan-20240601-090000.json"))
	if show := other.mustRun(t, "plan", "show"); !strings.Contains(show, "Eggs") {
		t.Fatalf("expected restored meal:\n%s", show)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "config", "set", "history.limit=5", "display.units=imperial")
	out := env.mustRun(t, "config", "get", "history.limit")
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("expected history.limit 5, got %q", out)
	}
	out = env.mustRun(t, "config", "get")
	if !strings.Contains(out, "display.units\timperial") || !strings.Contains(out, "weather.geo_lookup\tfalse") {
		t.Fatalf("unexpected config table:\n%s", out)
	}
	if _, err := env.run(t, "", "config", "set", "history.limit=-1"); err == nil {
		t.Fatalf("expected invalid limit to fail")
	}
	if _, err := env.run(t, "", "config", "set", "nonsense"); err == nil {
		t.Fatalf("expected missing '=' to fail")
	}
}

func TestWeatherFallsBackOffline(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun(t, "weather", "forecast")
	if !strings.Contains(out, "Weather (offline)") || !strings.Contains(out, "Today") || !strings.Contains(out, "72°F") {
		t.Fatalf("expected fallback forecast:\n%s", out)
	}
	out = env.mustRun(t, "weather", "sun")
	if !strings.Contains(out, "Sunrise 6:30 AM  Sunset 7:30 PM (offline)") {
		t.Fatalf("expected fallback sun times:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	if out := env.mustRun(t, "version"); !strings.Contains(out, "mealplan dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestMetricsTextfileIsWritten(t *testing.T) {
	env := newCLIEnv(t)
	prom := filepath.Join(env.dir, "mealplan.prom")
	env.mustRun(t, "config", "set", "metrics.textfile="+prom)
	env.mustRun(t, "meal", "add", "--slot", "lunch", "--name", "Soup")

	b, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	for _, want := range []string{
		`mealplan_slot_writes_total{driver="sqlite",result="ok"} 1`,
		`mealplan_commands_total{command="mealplan meal add",result="ok"} 1`,
		`mealplan_day_plans 1`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("metrics textfile missing %q:\n%s", want, b)
		}
	}
}
