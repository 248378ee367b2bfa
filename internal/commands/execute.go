package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add           func(AddArgs) (Result, error)
	Done          func(TargetArgs) (Result, error)
	Undo          func(TargetArgs) (Result, error)
	Delete        func(TargetArgs) (Result, error)
	Archive       func(TargetArgs) (Result, error)
	Restore       func(TargetArgs) (Result, error)
	Notify        func(TargetArgs) (Result, error)
	Search        func(SearchArgs) (Result, error)
	Filter        func(FilterArgs) (Result, error)
	Sort          func(SortArgs) (Result, error)
	View          func(ViewArgs) (Result, error)
	Check         func() (Result, error)
	Test          func() (Result, error)
	Notifications func(ToggleArgs) (Result, error)
	Export        func(ExportArgs) (Result, error)
	Import        func(ImportArgs) (Result, error)
	History       func(HistoryArgs) (Result, error)
	Set           func(SetArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func withArgs[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s has no arguments", t)}
	}
	return fn(*args)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return withArgs(cmd.Type, handlers.Add, cmd.Add)
	case TypeDone:
		return withArgs(cmd.Type, handlers.Done, cmd.Target)
	case TypeUndo:
		return withArgs(cmd.Type, handlers.Undo, cmd.Target)
	case TypeDelete:
		return withArgs(cmd.Type, handlers.Delete, cmd.Target)
	case TypeArchive:
		return withArgs(cmd.Type, handlers.Archive, cmd.Target)
	case TypeRestore:
		return withArgs(cmd.Type, handlers.Restore, cmd.Target)
	case TypeNotify:
		return withArgs(cmd.Type, handlers.Notify, cmd.Target)
	case TypeSearch:
		return withArgs(cmd.Type, handlers.Search, cmd.Search)
	case TypeFilter:
		return withArgs(cmd.Type, handlers.Filter, cmd.Filter)
	case TypeSort:
		return withArgs(cmd.Type, handlers.Sort, cmd.Sort)
	case TypeView:
		return withArgs(cmd.Type, handlers.View, cmd.View)
	case TypeCheck:
		if handlers.Check == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Check()
	case TypeTest:
		if handlers.Test == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Test()
	case TypeNotifications:
		return withArgs(cmd.Type, handlers.Notifications, cmd.Toggle)
	case TypeExport:
		return withArgs(cmd.Type, handlers.Export, cmd.Export)
	case TypeImport:
		return withArgs(cmd.Type, handlers.Import, cmd.Import)
	case TypeHistory:
		return withArgs(cmd.Type, handlers.History, cmd.History)
	case TypeSet:
		return withArgs(cmd.Type, handlers.Set, cmd.Set)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
