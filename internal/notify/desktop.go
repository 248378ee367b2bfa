package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Desktop shows notifications through notify-send on Linux and osascript
// on macOS. Permission is granted once the helper binary is found.
type Desktop struct {
	mu       sync.Mutex
	state    Permission
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{
		state:    PermissionDefault,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (d *Desktop) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Desktop) RequestPermission(context.Context) (Permission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != PermissionDefault {
		return d.state, nil
	}
	bin := d.helper()
	if bin == "" {
		d.state = PermissionDenied
		return d.state, nil
	}
	if _, err := d.lookPath(bin); err != nil {
		d.state = PermissionDenied
		return d.state, nil
	}
	d.state = PermissionGranted
	return d.state, nil
}

func (d *Desktop) Display(ctx context.Context, n Notification) error {
	if d.Permission() != PermissionGranted {
		return ErrPermissionDenied
	}
	name, args := d.command(n)
	if name == "" {
		return nil
	}
	if err := d.run(ctx, name, args...); err != nil {
		return fmt.Errorf("notify: %s: %w", name, err)
	}
	return nil
}

func (d *Desktop) helper() string {
	switch d.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func (d *Desktop) command(n Notification) (string, []string) {
	switch d.goos {
	case "linux":
		args := []string{"--app-name=remindflow"}
		if n.Expire > 0 {
			args = append(args, "-t", strconv.FormatInt(n.Expire.Milliseconds(), 10))
		}
		if n.Sound != "" {
			args = append(args, "-h", "string:sound-name:"+n.Sound)
		}
		return "notify-send", append(args, n.Title, n.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		if n.Sound != "" {
			script += fmt.Sprintf(` sound name "%s"`, escapeAppleScript(n.Sound))
		}
		return "osascript", []string{"-e", script}
	default:
		return "", nil
	}
}

func escapeAppleScript(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
