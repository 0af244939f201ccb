package cookies

import (
	"bufio"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// Candidate is a place a browser may keep its cookie store.
type Candidate struct {
	Browser string
	// Path is the cookie database, or a Firefox profiles.ini when Profiles
	// is set.
	Path     string
	Profiles bool
}

// chromiumDirs lists the profile directories of the Chromium family,
// relative to the platform's application data root.
var chromiumDirs = []struct {
	browser        string
	unix, mac, win string
}{
	{"Chrome", ".config/google-chrome", "Google/Chrome", "Google/Chrome/User Data"},
	{"Chromium", ".config/chromium", "Chromium", "Chromium/User Data"},
	{"Edge", ".config/microsoft-edge", "Microsoft Edge", "Microsoft/Edge/User Data"},
	{"Brave", ".config/BraveSoftware/Brave-Browser", "BraveSoftware/Brave-Browser", "BraveSoftware/Brave-Browser/User Data"},
}

// Candidates returns the known cookie store locations for goos, in the
// order they are tried: Firefox, LibreWolf, then the Chromium family.
// home is the user's home directory; on Windows appData and localAppData
// are the roaming and local application data directories.
func Candidates(goos, home, appData, localAppData string) []Candidate {
	var out []Candidate
	switch goos {
	case "windows":
		out = append(out,
			Candidate{"Firefox", filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini"), true},
			Candidate{"LibreWolf", filepath.Join(appData, "LibreWolf", "profiles.ini"), true},
		)
	case "darwin":
		support := filepath.Join(home, "Library", "Application Support")
		out = append(out,
			Candidate{"Firefox", filepath.Join(support, "Firefox", "profiles.ini"), true},
			Candidate{"LibreWolf", filepath.Join(support, "librewolf", "profiles.ini"), true},
		)
	default:
		out = append(out,
			Candidate{"Firefox", filepath.Join(home, ".mozilla", "firefox", "profiles.ini"), true},
			Candidate{"Firefox", filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"), true},
			Candidate{"LibreWolf", filepath.Join(home, ".librewolf", "profiles.ini"), true},
		)
	}
	for _, d := range chromiumDirs {
		var base string
		switch goos {
		case "windows":
			base = filepath.Join(localAppData, filepath.FromSlash(d.win))
		case "darwin":
			base = filepath.Join(home, "Library", "Application Support", filepath.FromSlash(d.mac))
		default:
			base = filepath.Join(home, filepath.FromSlash(d.unix))
		}
		profile := filepath.Join(base, "Default")
		out = append(out,
			Candidate{Browser: d.browser, Path: filepath.Join(profile, "Network", "Cookies")},
			Candidate{Browser: d.browser, Path: filepath.Join(profile, "Cookies")},
		)
	}
	return out
}

// DefaultCandidates returns Candidates for the running platform.
func DefaultCandidates(home string, getenv func(string) string) []Candidate {
	return Candidates(runtime.GOOS, home, getenv("APPDATA"), getenv("LOCALAPPDATA"))
}

// Locate returns the first candidate whose cookie store exists on fs.
func Locate(fs afero.Fs, candidates []Candidate) (*Source, error) {
	if fs == nil {
		fs = osFs
	}
	for _, c := range candidates {
		path := c.Path
		if c.Profiles {
			dir := defaultProfile(fs, c.Path)
			if dir == "" {
				continue
			}
			path = filepath.Join(dir, "cookies.sqlite")
		}
		if checkStoreFile(fs, path) != nil {
			continue
		}
		format := FormatChrome
		if c.Profiles {
			format = FormatFirefox
		}
		return &Source{Path: path, Format: format, Browser: c.Browser}, nil
	}
	return nil, fmt.Errorf("%w: no browser cookie store in %d known locations", ErrNotFound, len(candidates))
}

// defaultProfile reads a Firefox profiles.ini and returns the default
// profile directory. An [Install*] Default= entry wins over a [Profile*]
// section marked Default=1. It returns "" when nothing qualifies.
func defaultProfile(fs afero.Fs, iniPath string) string {
	f, err := fs.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	dir := filepath.Dir(iniPath)
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, filepath.FromSlash(p))
	}

	var (
		install, marked string
		section         string
		path            string
		isDefault       bool
	)
	endProfile := func() {
		if strings.HasPrefix(section, "Profile") && isDefault && marked == "" && path != "" {
			marked = path
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			endProfile()
			section = line[1 : len(line)-1]
			path, isDefault = "", false
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch {
		case strings.HasPrefix(section, "Install") && key == "Default" && install == "":
			install = resolve(val)
		case strings.HasPrefix(section, "Profile") && key == "Path":
			path = resolve(val)
		case strings.HasPrefix(section, "Profile") && key == "Default":
			isDefault = val == "1"
		}
	}
	endProfile()

	if install != "" {
		return install
	}
	return marked
}
