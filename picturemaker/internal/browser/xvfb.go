package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// xvfbBin is the virtual display server started for headful mode.
var xvfbBin = "Xvfb"

// xvfbSettle is how long Xvfb gets before Chrome connects to it. Xvfb has
// no readiness signal.
const xvfbSettle = 500 * time.Millisecond

// startXvfb launches a virtual display sized to the capture viewport.
func startXvfb(ctx context.Context, display string, width, height int, logger *slog.Logger) (*exec.Cmd, error) {
	screen := fmt.Sprintf("%dx%dx24", width, height)
	cmd := exec.Command(xvfbBin, display, "-screen", "0", screen, "-ac")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start xvfb: %w", err)
	}

	t := time.NewTimer(xvfbSettle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		stopXvfb(cmd, logger)
		return nil, ctx.Err()
	case <-t.C:
	}

	logger.Info("browser: xvfb started", "display", display, "screen", screen, "pid", cmd.Process.Pid)
	return cmd, nil
}

func stopXvfb(cmd *exec.Cmd, logger *slog.Logger) {
	if cmd.Process != nil {
		cmd.Process.Kill()
		cmd.Wait()
	}
	logger.Info("browser: xvfb stopped")
}
