// internal/engine/dynamic/chrome.go
package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// ChromeEnv names the environment variable that overrides browser discovery
const ChromeEnv = "CHROME_PATH"

var chromeBinaries = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"msedge",
	"brave-browser",
}

// chromeCandidates lists well-known install locations for goos
func chromeCandidates(goos, home string, env func(string) string) []string {
	var candidates []string

	switch goos {
	case "darwin":
		for _, app := range []string{"Google Chrome", "Chromium", "Microsoft Edge", "Brave Browser"} {
			bundle := app + ".app/Contents/MacOS/" + app
			candidates = append(candidates, filepath.Join("/Applications", bundle))
			if home != "" {
				candidates = append(candidates, filepath.Join(home, "Applications", bundle))
			}
		}
	case "windows":
		for _, base := range []string{env("ProgramFiles"), env("ProgramFiles(x86)"), env("LocalAppData")} {
			if base == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(base, "Chromium", "Application", "chrome.exe"),
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
			)
		}
	default:
		for _, dir := range []string{"/usr/bin", "/usr/local/bin", "/snap/bin"} {
			for _, name := range chromeBinaries {
				candidates = append(candidates, filepath.Join(dir, name))
			}
		}
		if home != "" {
			candidates = append(candidates,
				filepath.Join(home, ".local/share/flatpak/exports/bin/com.google.Chrome"),
				filepath.Join(home, ".local/share/flatpak/exports/bin/org.chromium.Chromium"),
			)
		}
	}

	return candidates
}

// FindChrome locates a Chrome-compatible browser: $CHROME_PATH first, then
// standard install locations, then $PATH. It returns "" when nothing is found,
// leaving chromedp to try its own default.
func FindChrome() string {
	if path := os.Getenv(ChromeEnv); path != "" {
		if isExecutable(path) {
			return path
		}
		log.Warn().Str("path", path).Msg("CHROME_PATH set but not executable")
	}

	home, _ := os.UserHomeDir()
	for _, path := range chromeCandidates(runtime.GOOS, home, os.Getenv) {
		if isExecutable(path) {
			log.Debug().Str("path", path).Msg("Chrome found at standard location")
			return path
		}
	}

	for _, name := range chromeBinaries {
		if path, err := exec.LookPath(name); err == nil {
			log.Debug().Str("path", path).Msg("Chrome found in PATH")
			return path
		}
	}

	log.Warn().Str("os", runtime.GOOS).Msg("Chrome not found, will use chromedp default (may fail)")
	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}

// ChromeVersion returns the browser's self-reported version, or "unknown"
func ChromeVersion(chromePath string) string {
	if chromePath == "" || runtime.GOOS == "windows" {
		return "unknown"
	}
	out, err := exec.Command(chromePath, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
