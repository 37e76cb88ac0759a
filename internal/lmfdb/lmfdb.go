// Package lmfdb builds canonical URLs for the LMFDB zeta-zero archive.
package lmfdb

import "net/url"

// DefaultBase is the LMFDB host used when no override is configured.
const DefaultBase = "https://beta.lmfdb.org"

func join(base string, parts ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		// base is either the compiled-in default or a config value already
		// validated by the caller; a malformed override is a setup error, not
		// a runtime condition worth recovering from here.
		panic("lmfdb: invalid base url: " + err.Error())
	}
	for _, p := range parts {
		u = u.JoinPath(p)
	}
	return u.String()
}

// Manifest returns the URL of the archive's file manifest.
func Manifest(base string) string {
	return join(base, "data", "md5.txt")
}

// DataFile returns the URL of a single data file in the archive.
func DataFile(base, fileName string) string {
	return join(base, "data", "riemann-zeta-zeros", fileName)
}

// IndexDB returns the URL of the archive's SQLite index database.
func IndexDB(base string) string {
	return join(base, "riemann-zeta-zeros", "index.db")
}
