// Package conversation classifies free-text utterances into session
// commands. Matching is case-insensitive token matching against an
// explicit ordered rule table, not natural-language understanding; the
// rule order is a deliberate tie-break and several categories overlap
// textually.
package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
)

// rule pairs a pattern with a command builder. Rules are evaluated in
// order; the first match wins.
type rule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) domain.Command
}

// Interpreter maps utterances to commands.
type Interpreter struct {
	log   zerolog.Logger
	rules []rule
}

// New creates an interpreter with the fixed rule table.
//
// Priority, highest first: pause, resume, next, previous, repeat,
// goto-step, list-steps, explain. "start" resumes only as a whole word
// and only because the pause rule has already had its chance; an
// utterance containing both "pause" and "next" pauses.
func New(log zerolog.Logger) *Interpreter {
	simple := func(t domain.CommandType) func([]string) domain.Command {
		return func([]string) domain.Command { return domain.Command{Type: t} }
	}
	return &Interpreter{
		log: log,
		rules: []rule{
			{"pause", regexp.MustCompile(`\b(?:pause|stop|hold)\b`), simple(domain.CommandPause)},
			{"resume", regexp.MustCompile(`\b(?:resume|continue|start)\b`), simple(domain.CommandResume)},
			{"next", regexp.MustCompile(`\bnext\b`), simple(domain.CommandNext)},
			{"previous", regexp.MustCompile(`\b(?:previous|back)\b`), simple(domain.CommandPrevious)},
			{"repeat", regexp.MustCompile(`\b(?:repeat|again)\b`), simple(domain.CommandRepeat)},
			{"goto", regexp.MustCompile(`(?:go to|jump to|show me|goto)\s+step\s+(\d+)`), func(m []string) domain.Command {
				n, _ := strconv.Atoi(m[1])
				return domain.Command{Type: domain.CommandGoto, TargetStep: n}
			}},
			{"list", regexp.MustCompile(`list\s+(?:the\s+)?(first|last)\s+(\d+)\s+steps?`), func(m []string) domain.Command {
				count, _ := strconv.Atoi(m[2])
				return domain.Command{Type: domain.CommandListSteps, FromStart: m[1] == "first", Count: count}
			}},
			{"explain", regexp.MustCompile(`\b(?:explain|detail|more info|tell me more)\b`), simple(domain.CommandExplain)},
		},
	}
}

// Classify returns the command for an utterance. Unmatched input yields
// CommandForward, meaning the query goes to the language backend as-is.
func (i *Interpreter) Classify(query string) domain.Command {
	lowered := strings.ToLower(query)
	for _, r := range i.rules {
		if m := r.re.FindStringSubmatch(lowered); m != nil {
			cmd := r.build(m)
			i.log.Debug().Str("rule", r.name).Str("query", query).Msg("classified utterance")
			return cmd
		}
	}
	i.log.Debug().Str("query", query).Msg("no rule matched, forwarding")
	return domain.Command{Type: domain.CommandForward}
}
