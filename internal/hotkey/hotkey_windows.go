//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"
)

// Register installs the start/stop and cancel hotkeys and wires them to
// handler, which receives EventStart or EventCancel. With hook set, a
// low-level keyboard hook swallows the keystrokes instead of using
// RegisterHotKey, which some full-screen applications bypass.
func Register(startKey, cancelKey string, hook bool, handler func(id int)) error {
	if hook {
		return startLowLevelHook(startKey, cancelKey, handler)
	}
	return registerHotkeys(startKey, cancelKey, handler)
}

func registerHotkeys(startKey, cancelKey string, handler func(id int)) error {
	type hotkeyDef struct {
		id   int
		spec string
		mod  uint32
		vk   uint32
	}
	defs := []hotkeyDef{
		{id: EventStart, spec: startKey},
		{id: EventCancel, spec: cancelKey},
	}

	errCh := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		for i := range defs {
			mod, vk, err := parseHotkey(defs[i].spec)
			if err != nil {
				errCh <- fmt.Errorf("invalid hotkey %q: %w", defs[i].spec, err)
				return
			}
			defs[i].mod = mod
			defs[i].vk = vk
			log.Debug("parsed hotkey", "spec", defs[i].spec, "mod", fmt.Sprintf("0x%X", mod), "vk", fmt.Sprintf("0x%X", vk))
		}

		user32 := syscall.NewLazyDLL("user32.dll")
		procRegisterHotKey := user32.NewProc("RegisterHotKey")
		procUnregisterHotKey := user32.NewProc("UnregisterHotKey")
		procGetMessageW := user32.NewProc("GetMessageW")

		for _, d := range defs {
			r, _, _ := procRegisterHotKey.Call(0, uintptr(d.id), uintptr(d.mod), uintptr(d.vk))
			if r == 0 {
				for _, od := range defs {
					if od.id == d.id {
						break
					}
					procUnregisterHotKey.Call(0, uintptr(od.id))
				}
				errCh <- fmt.Errorf("RegisterHotKey failed for %q (id=%d)", d.spec, d.id)
				return
			}
		}

		log.Info("global hotkeys registered", "start", startKey, "cancel", cancelKey)
		errCh <- nil

		var msg struct {
			Hwnd    uintptr
			Message uint32
			WParam  uintptr
			LParam  uintptr
			Time    uint32
			PtX     int32
			PtY     int32
		}
		const wmHotkey = 0x0312
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) == -1 {
				log.Error("GetMessageW failed, leaving hotkey loop")
				return
			}
			if msg.Message == wmHotkey {
				handler(int(msg.WParam))
			}
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("timeout registering hotkeys")
	}
}

func startLowLevelHook(startKey, cancelKey string, handler func(id int)) error {
	type candidate struct {
		id  int
		mod uint32
	}

	errCh := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		specs := []struct {
			id   int
			spec string
		}{
			{id: EventStart, spec: startKey},
			{id: EventCancel, spec: cancelKey},
		}

		lookup := make(map[uint32][]candidate)
		for _, s := range specs {
			mod, vk, err := parseHotkey(s.spec)
			if err != nil {
				errCh <- fmt.Errorf("invalid hotkey %q: %w", s.spec, err)
				return
			}
			lookup[vk] = append(lookup[vk], candidate{id: s.id, mod: mod})
		}

		user32 := syscall.NewLazyDLL("user32.dll")
		procSetWindowsHookExW := user32.NewProc("SetWindowsHookExW")
		procUnhookWindowsHookEx := user32.NewProc("UnhookWindowsHookEx")
		procCallNextHookEx := user32.NewProc("CallNextHookEx")
		procGetMessageW := user32.NewProc("GetMessageW")
		procGetAsyncKeyState := user32.NewProc("GetAsyncKeyState")

		const (
			whKeyboardLL  = 13
			wmKeydown     = 0x0100
			wmKeyup       = 0x0101
			wmSysKeydown  = 0x0104
			wmSysKeyup    = 0x0105
			llkhfInjected = 0x10
			vkShift       = 0x10
			vkControl     = 0x11
			vkMenu        = 0x12
			vkLWin        = 0x5B
			vkRWin        = 0x5C
		)

		type kbdllHookStruct struct {
			vkCode      uint32
			scanCode    uint32
			flags       uint32
			time        uint32
			dwExtraInfo uintptr
		}

		keyHeld := func(vk int) bool {
			st, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
			return st&0x8000 != 0
		}
		modsSatisfied := func(required uint32) bool {
			if required&ModCtrl != 0 && !keyHeld(vkControl) {
				return false
			}
			if required&ModAlt != 0 && !keyHeld(vkMenu) {
				return false
			}
			if required&ModShift != 0 && !keyHeld(vkShift) {
				return false
			}
			if required&ModWin != 0 && !keyHeld(vkLWin) && !keyHeld(vkRWin) {
				return false
			}
			return true
		}

		swallowed := make(map[uint32]bool)

		callback := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
			if int32(nCode) < 0 {
				ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
				return ret
			}

			msg := uint32(wParam)
			k := (*kbdllHookStruct)(unsafe.Pointer(lParam))

			// Ignore keystrokes we synthesized ourselves (clipboard paste).
			if k.flags&llkhfInjected != 0 {
				ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
				return ret
			}

			if msg == wmKeydown || msg == wmSysKeydown {
				for _, c := range lookup[k.vkCode] {
					if modsSatisfied(c.mod) {
						swallowed[k.vkCode] = true
						go handler(c.id)
						return 1
					}
				}
			}
			if (msg == wmKeyup || msg == wmSysKeyup) && swallowed[k.vkCode] {
				delete(swallowed, k.vkCode)
				return 1
			}

			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		})

		hook, _, _ := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), callback, 0, 0)
		if hook == 0 {
			errCh <- fmt.Errorf("SetWindowsHookExW failed")
			return
		}
		log.Info("low-level keyboard hook installed", "start", startKey, "cancel", cancelKey)
		errCh <- nil

		var msg struct {
			Hwnd    uintptr
			Message uint32
			WParam  uintptr
			LParam  uintptr
			Time    uint32
			PtX     int32
			PtY     int32
		}
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) == -1 || ret == 0 {
				break
			}
		}

		procUnhookWindowsHookEx.Call(hook)
		log.Debug("low-level keyboard hook uninstalled")
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("timeout installing low-level hook")
	}
}
