package hotkey

import "testing"

func TestParseHotkey(t *testing.T) {
	cases := []struct {
		spec    string
		mod, vk uint32
	}{
		{"alt+q", ModAlt, 'Q'},
		{"ctrl+shift+f1", ModCtrl | ModShift, 0x70},
		{"esc", 0, 0x1B},
		{"space", 0, 0x20},
		{"win+5", ModWin, '5'},
		{"numpad7", 0, 0x67},
		{"ctrl+minus", ModCtrl, 0x6D},
		{"Alt + Z", ModAlt, 'Z'},
	}
	for _, c := range cases {
		mod, vk, err := parseHotkey(c.spec)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.spec, err)
			continue
		}
		if mod != c.mod || vk != c.vk {
			t.Errorf("%q: expected mod=0x%X vk=0x%X, got mod=0x%X vk=0x%X",
				c.spec, c.mod, c.vk, mod, vk)
		}
	}
}

func TestParseHotkeyRejects(t *testing.T) {
	for _, spec := range []string{"", "hyper+q", "f99", "doesnotexist"} {
		if _, _, err := parseHotkey(spec); err == nil {
			t.Errorf("%q: expected parse error", spec)
		}
	}
}
