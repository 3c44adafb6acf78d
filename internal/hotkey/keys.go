package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Event ids delivered to the handler.
const (
	EventStart  = 1
	EventCancel = 2
)

// Modifier bits, matching the Win32 RegisterHotKey masks.
const (
	ModAlt   = 0x0001
	ModCtrl  = 0x0002
	ModShift = 0x0004
	ModWin   = 0x0008
)

var namedKeys = map[string]uint32{
	"esc":       0x1B,
	"escape":    0x1B,
	"space":     0x20,
	"enter":     0x0D,
	"return":    0x0D,
	"tab":       0x09,
	"backspace": 0x08,
	"insert":    0x2D,
	"delete":    0x2E,
	"home":      0x24,
	"end":       0x23,
	"pageup":    0x21,
	"pagedown":  0x22,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
	"add":       0x6B,
	"plus":      0x6B,
	"subtract":  0x6D,
	"minus":     0x6D,
}

// parseHotkey accepts strings like "alt+q", "ctrl+shift+f1", "esc" and
// returns the modifier mask and virtual-key code.
func parseHotkey(s string) (mod, vk uint32, err error) {
	if s == "" {
		return 0, 0, fmt.Errorf("empty key")
	}
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ToLower(parts[i]))
	}

	keyToken := parts[len(parts)-1]
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "alt", "menu":
			mod |= ModAlt
		case "ctrl", "control":
			mod |= ModCtrl
		case "shift":
			mod |= ModShift
		case "win", "meta", "super":
			mod |= ModWin
		default:
			return 0, 0, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}

	if len(keyToken) == 1 {
		ch := keyToken[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			return mod, uint32(ch - 'a' + 'A'), nil
		case ch >= '0' && ch <= '9':
			return mod, uint32(ch), nil
		}
	}
	if v, ok := namedKeys[keyToken]; ok {
		return mod, v, nil
	}
	if rest, found := strings.CutPrefix(keyToken, "f"); found {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 24 {
			return mod, 0x70 + uint32(n-1), nil
		}
	}
	if rest, found := strings.CutPrefix(keyToken, "numpad"); found {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n <= 9 {
			return mod, 0x60 + uint32(n), nil
		}
	}
	return 0, 0, fmt.Errorf("unsupported key token: %s", s)
}
