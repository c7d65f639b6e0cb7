package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSum_KnownVector(t *testing.T) {
	// SHA-256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %s, want %s", got, want)
	}
}

func TestSumFile_MatchesSum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	data := []byte("the same bytes either way")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := SumFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != Sum(data) {
		t.Errorf("SumFile = %s, Sum = %s", got, Sum(data))
	}
}

func TestSumFile_Missing(t *testing.T) {
	if _, err := SumFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}
