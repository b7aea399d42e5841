package utils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var ErrNoOpener = errors.New("no system browser opener found")

// linuxOpeners are tried in order on regular Linux desktops
var linuxOpeners = []string{"xdg-open", "sensible-browser", "x-www-browser", "gnome-open", "kde-open"}

func isWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	// Check /proc/version for WSL
	if data, err := os.ReadFile("/proc/version"); err == nil {
		return strings.Contains(strings.ToLower(string(data)), "wsl")
	}

	return false
}

// OpenerCommand returns the command that opens url in the system browser
func OpenerCommand(goos string, wsl bool, url string, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case "linux":
		if wsl {
			// Use Windows default browser via cmd.exe start
			return exec.Command("cmd.exe", "/c", "start", url), nil
		}
		for _, name := range linuxOpeners {
			if _, err := lookPath(name); err == nil {
				return exec.Command(name, url), nil
			}
		}
		return nil, fmt.Errorf("%w: tried %s", ErrNoOpener, strings.Join(linuxOpeners, ", "))
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("%w: unsupported platform %s", ErrNoOpener, goos)
	}
}

// OpenBrowser opens url in the user's default browser without waiting for it
func OpenBrowser(url string) error {
	cmd, err := OpenerCommand(runtime.GOOS, isWSL(), url, exec.LookPath)
	if err != nil {
		return err
	}
	return cmd.Start()
}
