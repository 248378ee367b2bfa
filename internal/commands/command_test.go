package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add 2026-02-10 09:00 dentist", TypeAdd},
		{"done 3", TypeDone},
		{"undo schedule_1", TypeUndo},
		{"delete 1 2 3", TypeDelete},
		{"restore 2", TypeRestore},
		{"search rent", TypeSearch},
		{"filter cat:work,family pri:high", TypeFilter},
		{"sort priority", TypeSort},
		{"view upcoming", TypeView},
		{"check", TypeCheck},
		{"/test", TypeTest},
		{"notifications off", TypeNotifications},
		{"export ics out.ics", TypeExport},
		{"import backup.json", TypeImport},
		{"history", TypeHistory},
		{"set display.theme dark", TypeSet},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("add 2026-02-10 09:00 pay rent cat:work pri:HIGH end:10:30 repeat:monthly until:2026-12-31 remind:30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "pay rent" || a.Date != "2026-02-10" || a.Time != "09:00" {
		t.Fatalf("unexpected core fields: %+v", a)
	}
	if a.Category != "work" || a.Priority != "high" || a.EndTime != "10:30" {
		t.Fatalf("unexpected options: %+v", a)
	}
	if a.Repeat != "monthly" || a.Until != "2026-12-31" {
		t.Fatalf("unexpected recurrence: %+v", a)
	}
	if a.Remind == nil || *a.Remind != 30 {
		t.Fatalf("unexpected remind: %v", a.Remind)
	}

	cmd, err = Parse("add 2026-02-10 09:00 nap remind:off")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Remind == nil || *cmd.Add.Remind != -1 {
		t.Fatalf("expected reminders off, got %v", cmd.Add.Remind)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{
		"add 2026-02-10 09:00",
		"add 2026-02-10 09:00 cat:work",
		"add 2026-02-10 09:00 x remind:soon",
		"done",
		"done 1 2",
		"filter",
		"filter color:red",
		"notifications maybe",
		"export csv",
		"history purge",
		"set theme",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "  ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add 2026-02-10 09:00 write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	for _, in := range []string{"search tasks", "check"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		_, err = Execute(cmd, Handlers{})
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
			t.Fatalf("%q: expected missing handler error, got %v", in, err)
		}
	}
}
