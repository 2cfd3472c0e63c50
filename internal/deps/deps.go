package deps

import (
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

// Requirement is one precondition for running the interactive host.
type Requirement struct {
	Name     string
	Required bool
	Check    func() bool
	Hint     map[string]string
}

type Missing struct {
	Requirement
}

var requirements = []Requirement{
	{
		Name:     "interactive stdin",
		Required: true,
		Check:    func() bool { return isTerminal(os.Stdin.Fd()) },
		Hint: map[string]string{
			"default": "run debugdeck from a terminal, or use `debugdeck show <path>` for headless output",
		},
	},
	{
		Name:     "interactive stdout",
		Required: true,
		Check:    func() bool { return isTerminal(os.Stdout.Fd()) },
		Hint: map[string]string{
			"default": "do not pipe the interactive view; use `debugdeck show <path>` instead",
		},
	},
	{
		Name:     "capable TERM",
		Required: false,
		Check:    func() bool { return os.Getenv("TERM") != "dumb" },
		Hint: map[string]string{
			"windows": "use Windows Terminal for full color support",
			"default": "set TERM to xterm-256color or similar",
		},
	},
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Check returns every requirement that is not met.
func Check() []Missing {
	return check(requirements)
}

func check(reqs []Requirement) []Missing {
	missing := []Missing{}
	for _, r := range reqs {
		if !r.Check() {
			missing = append(missing, Missing{r})
		}
	}
	return missing
}

// Blocking reports whether any missing requirement is required.
func Blocking(missing []Missing) bool {
	for _, m := range missing {
		if m.Required {
			return true
		}
	}
	return false
}

func InstallHint(m Missing) string {
	if hint, ok := m.Hint[runtime.GOOS]; ok {
		return hint
	}
	if hint, ok := m.Hint["default"]; ok {
		return hint
	}
	return "check " + m.Name
}
