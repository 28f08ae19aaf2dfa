package cli

import (
	"os"
	"strings"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
)

type fakeProcess struct {
	pid  int
	exec string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exec }

func withProcesses(t *testing.T, procs ...ps.Process) {
	t.Helper()
	orig := listProcesses
	listProcesses = func() ([]ps.Process, error) { return procs, nil }
	t.Cleanup(func() { listProcesses = orig })
}

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx, out, cleanup := setupTestContext(t)
	defer cleanup()
	withProcesses(t, fakeProcess{os.Getpid(), "tripcheck"}, fakeProcess{4242, "bash"})

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	for _, want := range []string{
		"✓ Database reachable: OK",
		"✓ Schema version: OK",
		"✓ Migrations complete: OK",
		"✓ Stored data: OK",
		"⚠ Backups present: WARNING",
		"✓ Other tripcheck processes: OK",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheckOtherProcesses(t *testing.T) {
	ctx, _, cleanup := setupTestContext(t)
	defer cleanup()

	tests := []struct {
		name    string
		procs   []ps.Process
		wantErr bool
	}{
		{"only self", []ps.Process{fakeProcess{os.Getpid(), "tripcheck"}}, false},
		{"unrelated", []ps.Process{fakeProcess{100, "vim"}}, false},
		{"another run", []ps.Process{fakeProcess{100, "tripcheck"}}, true},
		{"windows exe", []ps.Process{fakeProcess{101, "tripcheck.exe"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, tt.procs...)
			err := checkOtherProcesses(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkOtherProcesses() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckClockTimezone(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"current", time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC), false},
		{"epoch", time.Unix(0, 0), true},
		{"far future", time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkClockTimezone(tt.now); (err != nil) != tt.wantErr {
				t.Errorf("checkClockTimezone() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSchemaVersion_NewerDatabase(t *testing.T) {
	ctx, _, cleanup := setupTestContext(t)
	defer cleanup()

	runner, err := ctx.Store.(migratable).Runner()
	if err != nil {
		t.Fatalf("Runner() failed: %v", err)
	}
	if err := runner.SetVersion(999); err != nil {
		t.Fatalf("SetVersion() failed: %v", err)
	}

	if err := checkSchemaVersion(ctx); err == nil {
		t.Error("expected a newer schema to fail the check")
	}
	if err := checkMigrationsComplete(ctx); err != nil {
		t.Errorf("migrations should count as complete, got %v", err)
	}
}
