package zetaconfig

import "testing"

func TestBaseDefaultsToLMFDB(t *testing.T) {
	c := &Config{}
	if got, want := c.Base(), "https://beta.lmfdb.org"; got != want {
		t.Errorf("Base() = %q, want %q", got, want)
	}
	c.BaseURL = "https://example.org"
	if got, want := c.Base(), "https://example.org"; got != want {
		t.Errorf("Base() = %q, want %q", got, want)
	}
}

func TestTimeoutDefaultsAndParses(t *testing.T) {
	c := &Config{}
	d, err := c.Timeout()
	if err != nil {
		t.Fatalf("Timeout(): %v", err)
	}
	if d != defaultHTTPTimeout {
		t.Errorf("Timeout() = %v, want %v", d, defaultHTTPTimeout)
	}

	c.HTTPTimeout = "5s"
	d, err = c.Timeout()
	if err != nil {
		t.Fatalf("Timeout(): %v", err)
	}
	if d.String() != "5s" {
		t.Errorf("Timeout() = %v, want 5s", d)
	}

	c.HTTPTimeout = "not-a-duration"
	if _, err := c.Timeout(); err == nil {
		t.Fatal("Timeout(): want error for malformed duration, got nil")
	}
}

func TestIndexDBFallsBackToEnv(t *testing.T) {
	c := &Config{}
	t.Setenv(indexDBEnv, "")
	if got := c.IndexDB(); got != "" {
		t.Errorf("IndexDB() = %q, want empty with no env and no config", got)
	}

	t.Setenv(indexDBEnv, "/var/lib/zeta/index.db")
	if got, want := c.IndexDB(), "/var/lib/zeta/index.db"; got != want {
		t.Errorf("IndexDB() = %q, want %q (from %s)", got, want, indexDBEnv)
	}

	c.IndexDBPath = "/explicit/path.db"
	if got, want := c.IndexDB(), "/explicit/path.db"; got != want {
		t.Errorf("IndexDB() = %q, want %q (explicit path overrides env)", got, want)
	}
}
