package lmfdb

import "testing"

func TestManifestDataFileIndexDB(t *testing.T) {
	base := "https://beta.lmfdb.org"
	if got, want := Manifest(base), "https://beta.lmfdb.org/data/md5.txt"; got != want {
		t.Errorf("Manifest(%q) = %q, want %q", base, got, want)
	}
	if got, want := DataFile(base, "zeros-14.dat"), "https://beta.lmfdb.org/data/riemann-zeta-zeros/zeros-14.dat"; got != want {
		t.Errorf("DataFile(%q, ...) = %q, want %q", base, got, want)
	}
	if got, want := IndexDB(base), "https://beta.lmfdb.org/riemann-zeta-zeros/index.db"; got != want {
		t.Errorf("IndexDB(%q) = %q, want %q", base, got, want)
	}
}

func TestJoinTrimsTrailingSlash(t *testing.T) {
	if got, want := Manifest("https://beta.lmfdb.org/"), "https://beta.lmfdb.org/data/md5.txt"; got != want {
		t.Errorf("Manifest with trailing slash = %q, want %q", got, want)
	}
}

func TestJoinPanicsOnInvalidBase(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("join: want panic on invalid base url, got none")
		}
	}()
	Manifest("://not-a-url")
}
