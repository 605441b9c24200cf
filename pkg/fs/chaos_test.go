package fs

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

// =============================================================================
// Chaos FS Tests
//
// Chaos never injects ENOENT: missing-path errors must come from the wrapped FS.
// =============================================================================

func Test_Chaos_Passes_Through_When_Mode_Is_NoOp(t *testing.T) {
	chaosFS := NewChaos(NewReal(), 12345, &ChaosConfig{
		ReadFailRate:    1.0,
		ReadDirFailRate: 1.0,
		StatFailRate:    1.0,
		WriteFailRate:   1.0,
	})
	chaosFS.SetMode(ChaosModeNoOp)

	path := filepath.Join(t.TempDir(), "index.json")

	if err := chaosFS.WriteFileAtomic(path, strings.NewReader("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := chaosFS.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != "hello" {
		t.Fatalf("ReadFile=%q, want %q", got, "hello")
	}

	if n := chaosFS.TotalFaults(); n != 0 {
		t.Fatalf("TotalFaults=%d, want 0", n)
	}
}

func Test_Chaos_Toggles_Injection_When_Mode_Changes(t *testing.T) {
	chaosFS := NewChaos(NewReal(), 12345, &ChaosConfig{StatFailRate: 1.0})
	dir := t.TempDir()

	if _, err := chaosFS.Stat(dir); !IsChaosErr(err) {
		t.Fatalf("Stat err=%v, want injected", err)
	}

	chaosFS.SetMode(ChaosModeNoOp)

	if _, err := chaosFS.Stat(dir); err != nil {
		t.Fatalf("Stat in noop mode: %v", err)
	}

	chaosFS.SetMode(ChaosModeActive)

	if _, err := chaosFS.Stat(dir); !IsChaosErr(err) {
		t.Fatalf("Stat err=%v, want injected after re-enabling", err)
	}
}

func Test_Chaos_Leaves_Target_Untouched_When_Write_Fail_Rate_Is_One(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	chaosFS := NewChaos(NewReal(), 1, &ChaosConfig{WriteFailRate: 1.0})

	err := chaosFS.WriteFileAtomic(path, strings.NewReader("new"))
	if !IsChaosErr(err) {
		t.Fatalf("err=%v, want injected", err)
	}

	var pe *iofs.PathError
	if !errors.As(err, &pe) || pe.Op != "write" || pe.Path != path {
		t.Fatalf("err=%#v, want *fs.PathError{Op: write, Path: %s}", err, path)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Fatalf("target=%q, want %q", got, "old")
	}
}

func Test_Chaos_Injects_Read_Error_When_Read_Fail_Rate_Is_One(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	chaosFS := NewChaos(NewReal(), 7, &ChaosConfig{ReadFailRate: 1.0})

	data, err := chaosFS.ReadFile(path)
	if !IsChaosErr(err) {
		t.Fatalf("err=%v, want injected", err)
	}

	if data != nil {
		t.Fatalf("data=%q, want nil", data)
	}

	if !errors.Is(err, syscall.EACCES) && !errors.Is(err, syscall.EIO) {
		t.Fatalf("err=%v, want EACCES or EIO", err)
	}
}

func Test_Chaos_Passes_Through_Real_NotExist_Errors_When_Path_Is_Missing(t *testing.T) {
	chaosFS := NewChaos(NewReal(), 1, &ChaosConfig{})
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := chaosFS.Stat(missing)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Stat err=%v, want ErrNotExist", err)
	}

	if IsChaosErr(err) {
		t.Fatal("real ENOENT reported as injected")
	}

	exists, err := chaosFS.Exists(missing)
	if err != nil || exists {
		t.Fatalf("Exists=(%v, %v), want (false, nil)", exists, err)
	}
}

func Test_Chaos_Keeps_Permission_Classification_When_Stat_Fails(t *testing.T) {
	chaosFS := NewChaos(NewReal(), 3, &ChaosConfig{StatFailRate: 1.0})
	dir := t.TempDir()

	for range 20 {
		_, err := chaosFS.Exists(dir)
		if err == nil {
			t.Fatal("Exists succeeded with StatFailRate=1")
		}

		if !errors.Is(err, syscall.EACCES) && !errors.Is(err, syscall.EIO) {
			t.Fatalf("err=%v, want EACCES or EIO", err)
		}

		if errors.Is(err, syscall.EACCES) && !os.IsPermission(errors.Unwrap(err)) {
			t.Fatalf("os.IsPermission(%v)=false", err)
		}
	}
}

func Test_Chaos_ReadDir_Prefers_Full_Failure_Over_Partial_When_Both_Rates_Are_One(t *testing.T) {
	mem := NewMemory()
	writeMem(t, mem, "/d/a.csv", "/d/b.csv", "/d/c.csv")

	chaosFS := NewChaos(mem, 9, &ChaosConfig{ReadDirFailRate: 1.0, ReadDirPartialRate: 1.0})

	entries, err := chaosFS.ReadDir("/d")
	if !IsChaosErr(err) {
		t.Fatalf("err=%v, want injected", err)
	}

	if entries != nil {
		t.Fatalf("entries=%v, want nil", entries)
	}

	if s := chaosFS.Stats(); s.ReadDirFails != 1 || s.PartialReadDirs != 0 {
		t.Fatalf("stats=%+v", s)
	}
}

func Test_Chaos_ReadDir_Returns_Subset_And_Error_When_ReadDir_Partial_Rate_Is_One(t *testing.T) {
	mem := NewMemory()
	writeMem(t, mem, "/d/a.csv", "/d/b.csv", "/d/c.csv")

	chaosFS := NewChaos(mem, 9, &ChaosConfig{ReadDirPartialRate: 1.0})

	entries, err := chaosFS.ReadDir("/d")
	if !errors.Is(err, syscall.EIO) || !IsChaosErr(err) {
		t.Fatalf("err=%v, want injected EIO", err)
	}

	if len(entries) == 0 || len(entries) >= 3 {
		t.Fatalf("len(entries)=%d, want 1 or 2", len(entries))
	}

	if entries[0].Name() != "a.csv" {
		t.Fatalf("first entry=%q, want a.csv", entries[0].Name())
	}
}

func Test_NewChaos_Panics_When_FS_Is_Nil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	NewChaos(nil, 1, &ChaosConfig{})
}

func Test_Chaos_TotalFaults_Returns_Sum_When_Multiple_Fault_Types_Injected(t *testing.T) {
	mem := NewMemory()
	writeMem(t, mem, "/d/a.csv")

	chaosFS := NewChaos(mem, 5, &ChaosConfig{
		ReadFailRate:    1.0,
		ReadDirFailRate: 1.0,
		StatFailRate:    1.0,
		WriteFailRate:   1.0,
	})

	_, _ = chaosFS.ReadFile("/d/a.csv")
	_, _ = chaosFS.ReadDir("/d")
	_, _ = chaosFS.Stat("/d")
	_, _ = chaosFS.Exists("/d")
	_ = chaosFS.WriteFileAtomic("/d/index.json", bytes.NewReader(nil))

	want := ChaosStats{ReadFails: 1, ReadDirFails: 1, StatFails: 2, WriteFails: 1}
	if got := chaosFS.Stats(); got != want {
		t.Fatalf("Stats=%+v, want %+v", got, want)
	}

	if got := chaosFS.TotalFaults(); got != 5 {
		t.Fatalf("TotalFaults=%d, want 5", got)
	}
}

func writeMem(t *testing.T, mem *Billy, paths ...string) {
	t.Helper()

	for _, p := range paths {
		if err := mem.WriteFileAtomic(p, strings.NewReader("x")); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}
