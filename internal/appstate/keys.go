package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

const (
	actionPencil   = "pencil"
	actionEraser   = "eraser"
	actionClear    = "clear"
	actionGenerate = "generate"
	actionPrev     = "style-prev"
	actionNext     = "style-next"
	actionPaste    = "paste"
	actionCopy     = "copy"
	actionQuit     = "quit"
	actionCancel   = "cancel"
)

// modMask keeps the modifiers shortcuts care about. Shift is dropped so
// that letters match regardless of case.
const modMask = key.ModControl | key.ModAlt | key.ModMeta

func defaultShortcuts() map[string]KeyboardShortcuts {
	return map[string]KeyboardShortcuts{
		actionPencil:   shortcutList{{Rune: 'p'}},
		actionEraser:   shortcutList{{Rune: 'e'}},
		actionClear:    shortcutList{{Rune: 'c'}},
		actionGenerate: shortcutList{{Rune: 'g'}, {Code: key.CodeReturnEnter}},
		actionPrev:     shortcutList{{Rune: '['}},
		actionNext:     shortcutList{{Rune: ']'}},
		actionPaste:    shortcutList{{Rune: 'v', Modifiers: key.ModControl}},
		actionCopy:     shortcutList{{Rune: 'c', Modifiers: key.ModControl}},
		actionQuit:     shortcutList{{Rune: 'q'}, {Rune: 'w', Modifiers: key.ModControl}},
		actionCancel:   shortcutList{{Code: key.CodeEscape}},
	}
}

// keymap resolves key events to action names.
type keymap map[KeyShortcut]string

func newKeymap(actions map[string]KeyboardShortcuts) keymap {
	km := keymap{}
	for name, keys := range actions {
		for _, sc := range keys.KeyboardShortcuts() {
			sc.Rune = unicode.ToLower(sc.Rune)
			km[sc] = name
		}
	}
	return km
}

// lookup matches by rune first, then by key code.
func (km keymap) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers & modMask
	if e.Rune > 0 {
		if a, ok := km[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return a, true
		}
	}
	// control combinations often arrive without a rune
	if r := runeOfCode(e.Code); r != 0 {
		if a, ok := km[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return a, true
		}
	}
	a, ok := km[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return a, ok
}

func runeOfCode(c key.Code) rune {
	if c >= key.CodeA && c <= key.CodeZ {
		return 'a' + rune(c-key.CodeA)
	}
	return 0
}
