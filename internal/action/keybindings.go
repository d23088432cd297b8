package action

import (
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scr8/sqlopsstudio/internal/log"
)

// Rule is one keybinding-rule table entry: it binds the chords of a
// keybinding spec to a command identifier, ranked by weight and gated by an
// optional when predicate.
type Rule struct {
	ID     string
	Weight Weight
	When   When
	// Spec may be nil: the rule is still recorded but matches no chord,
	// leaving the command reachable only via palette or direct execution.
	Spec *KeybindingSpec
}

// KeybindingRegistry is the keybinding rule table. Rules are appended at
// contribution time and never removed; the absence of a removal API is a
// deliberate one-way commitment (disposing a registration handle leaves its
// rule installed). User overrides shadow descriptor chords at dispatch time
// without retracting the underlying rules.
type KeybindingRegistry struct {
	mu        sync.RWMutex
	rules     []Rule
	overrides map[string]string
	goos      string
}

// NewKeybindingRegistry creates a rule table for the current platform.
func NewKeybindingRegistry() *KeybindingRegistry {
	return newKeybindingRegistry(runtime.GOOS)
}

func newKeybindingRegistry(goos string) *KeybindingRegistry {
	return &KeybindingRegistry{
		overrides: make(map[string]string),
		goos:      goos,
	}
}

// RegisterRule appends a rule to the table. There is intentionally no
// corresponding removal.
func (r *KeybindingRegistry) RegisterRule(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)

	log.Debug(log.CatKeys, "keybinding rule registered",
		"id", rule.ID, "weight", int(rule.Weight), "chords", strings.Join(r.chordsForLocked(rule), " "))
}

// SetOverrides replaces the user chord overrides (action id to chord). An
// override shadows every descriptor chord for that action; an empty chord
// unbinds it. Overrides are re-applied wholesale on config reload.
func (r *KeybindingRegistry) SetOverrides(overrides map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overrides = make(map[string]string, len(overrides))
	for id, chord := range overrides {
		r.overrides[id] = strings.ToLower(strings.TrimSpace(chord))
	}
}

// Resolve maps a key press to a command identifier. Rules whose when
// predicate rejects the current context are skipped; among matching rules
// the highest weight wins, with later registrations breaking ties.
func (r *KeybindingRegistry) Resolve(msg tea.KeyMsg, kctx Context) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := false
	var best Rule
	for _, rule := range r.rules {
		if rule.When != nil && !rule.When(kctx) {
			continue
		}
		chords := r.chordsForLocked(rule)
		if len(chords) == 0 {
			continue
		}
		if !key.Matches(msg, key.NewBinding(key.WithKeys(chords...))) {
			continue
		}
		if !found || rule.Weight >= best.Weight {
			best = rule
			found = true
		}
	}
	if !found {
		return "", false
	}
	return best.ID, true
}

// Lookup returns the effective chords for a command, override included.
// Used for palette hints and the actions listing; an empty result means the
// command has no key chord.
func (r *KeybindingRegistry) Lookup(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.rules) - 1; i >= 0; i-- {
		if r.rules[i].ID == id {
			return r.chordsForLocked(r.rules[i])
		}
	}
	return nil
}

// chordsForLocked computes the effective chord list for a rule: the user
// override if present, else the platform-specific chords from the spec.
// Callers must hold at least the read lock.
func (r *KeybindingRegistry) chordsForLocked(rule Rule) []string {
	if chord, ok := r.overrides[rule.ID]; ok {
		if chord == "" {
			return nil
		}
		return []string{chord}
	}
	if rule.Spec == nil {
		return nil
	}

	chords := rule.Spec.Chords
	switch r.goos {
	case "windows":
		if rule.Spec.Win != nil {
			chords = *rule.Spec.Win
		}
	case "darwin":
		if rule.Spec.Mac != nil {
			chords = *rule.Spec.Mac
		}
	default:
		if rule.Spec.Linux != nil {
			chords = *rule.Spec.Linux
		}
	}

	var out []string
	if chords.Primary != "" {
		out = append(out, strings.ToLower(chords.Primary))
	}
	for _, c := range chords.Secondary {
		if c != "" {
			out = append(out, strings.ToLower(c))
		}
	}
	return out
}
