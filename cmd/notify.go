package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
)

// notify shows a desktop notification.
func notify(title, message string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("osascript", "-e", fmt.Sprintf("display notification %q with title %q", message, title))
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("notify-send", title, message)
	default:
		return fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, out)
	}
	return nil
}
