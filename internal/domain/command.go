package domain

// CommandType classifies what a free-text utterance asks the session to
// do. CommandForward means the interpreter matched nothing and the query
// goes to the language backend verbatim.
type CommandType int

const (
	CommandForward CommandType = iota
	CommandPause
	CommandResume
	CommandNext
	CommandPrevious
	CommandRepeat
	CommandGoto
	CommandListSteps
	CommandExplain
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandRepeat:
		return "repeat"
	case CommandGoto:
		return "goto"
	case CommandListSteps:
		return "list_steps"
	case CommandExplain:
		return "explain"
	default:
		return "forward"
	}
}

// Command is a classified utterance.
type Command struct {
	Type CommandType

	// TargetStep is the 1-based destination for CommandGoto.
	TargetStep int

	// FromStart and Count describe a CommandListSteps slice: the first
	// (or last) Count steps of the recipe.
	FromStart bool
	Count     int
}
