package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd           Type = "add"
	TypeDone          Type = "done"
	TypeUndo          Type = "undo"
	TypeDelete        Type = "delete"
	TypeArchive       Type = "archive"
	TypeRestore       Type = "restore"
	TypeNotify        Type = "notify"
	TypeSearch        Type = "search"
	TypeFilter        Type = "filter"
	TypeSort          Type = "sort"
	TypeView          Type = "view"
	TypeCheck         Type = "check"
	TypeTest          Type = "test"
	TypeNotifications Type = "notifications"
	TypeExport        Type = "export"
	TypeImport        Type = "import"
	TypeHistory       Type = "history"
	TypeSet           Type = "set"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs holds a new schedule typed as
// "add <date> <time> <title...> [cat:] [pri:] [end:] [repeat:] [until:] [remind:] [sound:]".
type AddArgs struct {
	Date     string
	Time     string
	Title    string
	EndTime  string
	Category string
	Priority string
	Repeat   string
	Until    string
	Sound    string
	// Remind is nil when unset. A negative value means reminders off.
	Remind *int
}

// TargetArgs names schedules by list position (1-based) or id.
type TargetArgs struct {
	Targets []string
}

type SearchArgs struct {
	Term string
}

type FilterArgs struct {
	Clear      bool
	Categories []string
	Priorities []string
	From       string
	To         string
}

type SortArgs struct {
	Key string
}

type ViewArgs struct {
	Name string
}

type ToggleArgs struct {
	On bool
}

type ExportArgs struct {
	Format string
	Path   string
}

type ImportArgs struct {
	Path string
}

type HistoryArgs struct {
	Action string
}

type SetArgs struct {
	Key   string
	Value string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Target  *TargetArgs
	Search  *SearchArgs
	Filter  *FilterArgs
	Sort    *SortArgs
	View    *ViewArgs
	Toggle  *ToggleArgs
	Export  *ExportArgs
	Import  *ImportArgs
	History *HistoryArgs
	Set     *SetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch t := Type(head); t {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeUndo, TypeDelete, TypeArchive, TypeRestore, TypeNotify:
		return parseTarget(t, input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Term: strings.Join(args, " ")}}, nil
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		if len(args) != 1 {
			return Command{}, invalid("sort requires one key")
		}
		return Command{Type: TypeSort, Raw: input, Sort: &SortArgs{Key: strings.ToLower(args[0])}}, nil
	case TypeView:
		if len(args) != 1 {
			return Command{}, invalid("view requires a name")
		}
		return Command{Type: TypeView, Raw: input, View: &ViewArgs{Name: strings.ToLower(args[0])}}, nil
	case TypeCheck, TypeTest:
		return Command{Type: t, Raw: input}, nil
	case TypeNotifications:
		return parseToggle(input, args)
	case TypeExport:
		if len(args) != 2 {
			return Command{}, invalid("export requires format and path")
		}
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Format: strings.ToLower(args[0]), Path: args[1]}}, nil
	case TypeImport:
		if len(args) != 1 {
			return Command{}, invalid("import requires a path")
		}
		return Command{Type: TypeImport, Raw: input, Import: &ImportArgs{Path: args[0]}}, nil
	case TypeHistory:
		action := "show"
		if len(args) > 0 {
			action = strings.ToLower(args[0])
		}
		switch action {
		case "show", "read", "clear":
		default:
			return Command{}, invalid("history supports show, read or clear")
		}
		return Command{Type: TypeHistory, Raw: input, History: &HistoryArgs{Action: action}}, nil
	case TypeSet:
		if len(args) < 2 {
			return Command{}, invalid("set requires key and value")
		}
		return Command{Type: TypeSet, Raw: input, Set: &SetArgs{Key: args[0], Value: strings.Join(args[1:], " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, invalid("add requires date, time and title")
	}
	out := AddArgs{Date: args[0], Time: args[1]}
	title := make([]string, 0, len(args)-2)
	for _, arg := range args[2:] {
		name, value, ok := strings.Cut(arg, ":")
		if !ok || value == "" {
			title = append(title, arg)
			continue
		}
		switch strings.ToLower(name) {
		case "cat":
			out.Category = strings.ToLower(value)
		case "pri":
			out.Priority = strings.ToLower(value)
		case "end":
			out.EndTime = value
		case "repeat":
			out.Repeat = strings.ToLower(value)
		case "until":
			out.Until = value
		case "sound":
			out.Sound = value
		case "remind":
			n := -1
			if !strings.EqualFold(value, "off") {
				v, err := strconv.Atoi(value)
				if err != nil || v < 0 {
					return Command{}, invalid("remind expects minutes or off, got %q", value)
				}
				n = v
			}
			out.Remind = &n
		default:
			title = append(title, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTarget(t Type, raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("%s requires a target", t)
	}
	if len(args) > 1 && t != TypeDelete {
		return Command{}, invalid("%s takes exactly one target", t)
	}
	return Command{Type: t, Raw: raw, Target: &TargetArgs{Targets: args}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("filter requires criteria or clear")
	}
	if len(args) == 1 && strings.EqualFold(args[0], "clear") {
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Clear: true}}, nil
	}
	out := FilterArgs{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":")
		if !ok || value == "" {
			return Command{}, invalid("filter criterion %q must look like name:value", arg)
		}
		switch strings.ToLower(name) {
		case "cat":
			out.Categories = append(out.Categories, strings.Split(strings.ToLower(value), ",")...)
		case "pri":
			out.Priorities = append(out.Priorities, strings.Split(strings.ToLower(value), ",")...)
		case "from":
			out.From = value
		case "to":
			out.To = value
		default:
			return Command{}, invalid("unknown filter criterion %q", name)
		}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
}

func parseToggle(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("notifications requires on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return Command{Type: TypeNotifications, Raw: raw, Toggle: &ToggleArgs{On: true}}, nil
	case "off":
		return Command{Type: TypeNotifications, Raw: raw, Toggle: &ToggleArgs{On: false}}, nil
	default:
		return Command{}, invalid("notifications requires on or off")
	}
}
