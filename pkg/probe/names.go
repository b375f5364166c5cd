package probe

// Logical identifies one discovery target independently of its many possible
// on-system names.
type Logical string

const (
	// Curses is the primary terminal-control library.
	Curses Logical = "ncurses"
	// Menu is the menu extension library.
	Menu Logical = "menu"
	// Panel is the panel extension library.
	Panel Logical = "panel"
	// Tinfo is the low-level terminfo sub-library some distros split out.
	Tinfo Logical = "tinfo"
)

// All lists the logical libraries in resolution order.
var All = []Logical{Curses, Menu, Panel, Tinfo}

// Candidates is an ordered list of on-system names for one logical library,
// most specific first. The order is significant: it encodes observed distro
// precedence, and the last entry doubles as the unconditional fallback when
// nothing resolves.
type Candidates []string

// Fallback returns the last candidate, the name linked unconditionally when
// neither metadata lookup nor link trials find anything better.
func (c Candidates) Fallback() string {
	return c[len(c)-1]
}

// nameTables maps each logical library to its wide and narrow candidate
// lists. Versioned names are tried before unversioned ones; that ordering
// predates this tool and is kept as-is.
var nameTables = map[Logical]struct{ wide, narrow Candidates }{
	Curses: {
		wide:   Candidates{"ncursesw5", "ncursesw"},
		narrow: Candidates{"ncurses5", "ncurses"},
	},
	Menu: {
		wide:   Candidates{"menuw5", "menuw"},
		narrow: Candidates{"menu5", "menu"},
	},
	Panel: {
		wide:   Candidates{"panelw5", "panelw"},
		narrow: Candidates{"panel5", "panel"},
	},
	Tinfo: {
		// Order matters more than usual here. Fedora pairs ncursesw with a
		// plain tinfo (no w), and -ltinfow fails to link on both Fedora and
		// NixOS, so tinfo must stay the final fallback even for wide builds.
		// NixOS ships only ncursesw but -ltinfo still links (it's a symlink
		// to the ncursesw .so). Gentoo has the full ncursesw+tinfow split.
		wide: Candidates{"tinfow5", "tinfow", "tinfo"},
		// No reason to ever fall back to tinfow when narrow: Fedora and
		// Gentoo have ncurses+tinfo, and NixOS resolves tinfo as above.
		narrow: Candidates{"tinfo5", "tinfo"},
	},
}

// Names returns the candidate list for a logical library under the given
// wideness. The returned slice is shared; callers must not modify it.
func Names(lib Logical, wide bool) Candidates {
	t := nameTables[lib]
	if wide {
		return t.wide
	}
	return t.narrow
}
