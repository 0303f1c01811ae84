package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCaptureDevice probes for a usable audio capture device via arecord.
// The check passes when at least one capture card is listed; an absent
// arecord binary passes too, since uploads and annotation-only sessions do
// not need local recording.
func CheckCaptureDevice(ctx context.Context, device string) Result {
	const name = "Capture device"

	if _, err := exec.LookPath("arecord"); err != nil {
		return Result{Name: name, Passed: true, Detail: "arecord not installed (local recording disabled)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	output, err := exec.CommandContext(checkCtx, "arecord", "-l").CombinedOutput()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("arecord -l failed (%v)", err)}
	}
	for _, line := range strings.Split(string(output), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "card ") {
			detail := strings.TrimSpace(line)
			if device = strings.TrimSpace(device); device != "" {
				detail = fmt.Sprintf("%s (configured: %s)", detail, device)
			}
			return Result{Name: name, Passed: true, Detail: detail}
		}
	}
	return Result{Name: name, Detail: "no capture cards listed"}
}
