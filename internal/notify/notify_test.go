package notify

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func fakeDesktop(goos string, found bool) (*Desktop, *[][]string) {
	var calls [][]string
	d := NewDesktop()
	d.goos = goos
	d.lookPath = func(name string) (string, error) {
		if !found {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	d.run = func(_ context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	return d, &calls
}

func TestDesktopPermissionFlow(t *testing.T) {
	d, calls := fakeDesktop("linux", true)
	if d.Permission() != PermissionDefault {
		t.Fatalf("expected default permission, got %s", d.Permission())
	}
	if err := d.Display(testContext(t), Notification{Title: "x"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied before grant, got %v", err)
	}
	p, err := d.RequestPermission(testContext(t))
	if err != nil || p != PermissionGranted {
		t.Fatalf("expected granted, got %s %v", p, err)
	}

	n := Notification{Title: "リマインダー: 会議", Body: "2026-02-09 10:00の予定です", Sound: "chime", Expire: 10 * time.Second}
	if err := d.Display(testContext(t), n); err != nil {
		t.Fatalf("display: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one command, got %v", *calls)
	}
	got := (*calls)[0]
	if got[0] != "notify-send" || !slices.Contains(got, "10000") || !slices.Contains(got, "string:sound-name:chime") || got[len(got)-2] != n.Title {
		t.Fatalf("unexpected notify-send args: %v", got)
	}
}

func TestDesktopDeniedWithoutHelper(t *testing.T) {
	d, _ := fakeDesktop("linux", false)
	if p, _ := d.RequestPermission(testContext(t)); p != PermissionDenied {
		t.Fatalf("expected denied, got %s", p)
	}
	d2, _ := fakeDesktop("plan9", true)
	if p, _ := d2.RequestPermission(testContext(t)); p != PermissionDenied {
		t.Fatalf("expected denied on unsupported os, got %s", p)
	}
}

func TestDesktopDarwinScriptEscapes(t *testing.T) {
	d, calls := fakeDesktop("darwin", true)
	_, _ = d.RequestPermission(testContext(t))
	if err := d.Display(testContext(t), Notification{Title: `say "hi"`, Body: "b", Sound: "Glass"}); err != nil {
		t.Fatalf("display: %v", err)
	}
	script := (*calls)[0][2]
	if script != `display notification "b" with title "say \"hi\"" sound name "Glass"` {
		t.Fatalf("unexpected script: %s", script)
	}
}

func TestFanoutSkipsUngrantedSinks(t *testing.T) {
	denied, _ := fakeDesktop("linux", false)
	_, _ = denied.RequestPermission(testContext(t))
	ch := NewChannel(1)
	f := NewFanout(denied, ch)

	if f.Permission() != PermissionGranted {
		t.Fatalf("expected granted via channel, got %s", f.Permission())
	}
	if err := f.Display(testContext(t), Notification{Title: "t"}); err != nil {
		t.Fatalf("display: %v", err)
	}
	select {
	case n := <-ch.C():
		if n.Title != "t" {
			t.Fatalf("unexpected notification %+v", n)
		}
	default:
		t.Fatal("expected notification on channel")
	}

	if err := NewFanout(denied).Display(testContext(t), Notification{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
