package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// FlagValues holds parsed flags with explicit set tracking.
type FlagValues struct {
	Device            string
	DeviceSet         bool
	PreferredRate     int
	PreferredRateSet  bool
	OutputDir         string
	OutputDirSet      bool
	KeepRecordings    bool
	KeepRecordingsSet bool

	Engine            string
	EngineSet         bool
	Model             string
	ModelSet          bool
	ModelPath         string
	ModelPathSet      bool
	ModelsDir         string
	ModelsDirSet      bool
	Language          string
	LanguageSet       bool
	Threads           int
	ThreadsSet        bool
	IdleTimeoutMin    int
	IdleTimeoutMinSet bool

	HotKeyHook    bool
	HotKeyHookSet bool
	StartKey      string
	StartKeySet   bool
	CancelKey     string
	CancelKeySet  bool

	Notification    bool
	NotificationSet bool
	Debug           bool
	DebugSet        bool

	OutputPath    string
	OutputPathSet bool
}

type stringFlag struct {
	target *string
	set    *bool
}

func (s *stringFlag) String() string {
	if s == nil || s.target == nil {
		return ""
	}
	return *s.target
}

func (s *stringFlag) Set(v string) error {
	if s.target != nil {
		*s.target = v
	}
	if s.set != nil {
		*s.set = true
	}
	return nil
}

type intFlag struct {
	target *int
	set    *bool
}

func (i *intFlag) String() string {
	if i == nil || i.target == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i.target)
}

func (i *intFlag) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if i.target != nil {
		*i.target = n
	}
	if i.set != nil {
		*i.set = true
	}
	return nil
}

type boolFlag struct {
	target *bool
	set    *bool
}

func (b *boolFlag) String() string {
	if b == nil || b.target == nil {
		return ""
	}
	return fmt.Sprintf("%v", *b.target)
}

func parseBoolExt(v string) (bool, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %s", v)
}

func (b *boolFlag) Set(v string) error {
	n, err := parseBoolExt(v)
	if err != nil {
		return err
	}
	if b.target != nil {
		*b.target = n
	}
	if b.set != nil {
		*b.set = true
	}
	return nil
}

// BindFlags registers all flags and returns the populated FlagValues.
func BindFlags(fs *flag.FlagSet) *FlagValues {
	fv := &FlagValues{}

	fs.Var(&stringFlag{&fv.Device, &fv.DeviceSet}, "device", "input device name, or \"default\"")
	fs.Var(&intFlag{&fv.PreferredRate, &fv.PreferredRateSet}, "rate", "preferred capture rate (Hz)")
	fs.Var(&stringFlag{&fv.OutputDir, &fv.OutputDirSet}, "output-dir", "directory for recorded WAV files")
	fs.Var(&boolFlag{&fv.KeepRecordings, &fv.KeepRecordingsSet}, "keep-recordings", "keep WAV files after transcription (true/false)")

	fs.Var(&stringFlag{&fv.Engine, &fv.EngineSet}, "engine", "inference engine (whisper, vosk)")
	fs.Var(&stringFlag{&fv.Model, &fv.ModelSet}, "model", "whisper model name from the catalog (e.g. base.en)")
	fs.Var(&stringFlag{&fv.ModelPath, &fv.ModelPathSet}, "model-path", "explicit model path, bypasses the catalog")
	fs.Var(&stringFlag{&fv.ModelsDir, &fv.ModelsDirSet}, "models-dir", "directory downloaded models are stored in")
	fs.Var(&stringFlag{&fv.Language, &fv.LanguageSet}, "language", "spoken language hint (e.g. en)")
	fs.Var(&intFlag{&fv.Threads, &fv.ThreadsSet}, "threads", "inference threads (0 = auto)")
	fs.Var(&intFlag{&fv.IdleTimeoutMin, &fv.IdleTimeoutMinSet}, "idle-timeout", "minutes before an idle model is unloaded")

	fs.Var(&stringFlag{&fv.StartKey, &fv.StartKeySet}, "start-key", "start/stop hotkey")
	fs.Var(&stringFlag{&fv.CancelKey, &fv.CancelKeySet}, "cancel-key", "cancel hotkey")
	fs.Var(&boolFlag{&fv.HotKeyHook, &fv.HotKeyHookSet}, "hotkeyhook", "use low-level keyboard hook (true/false)")

	fs.Var(&boolFlag{&fv.Notification, &fv.NotificationSet}, "notification", "enable notifications (true/false)")
	fs.Var(&boolFlag{&fv.Debug, &fv.DebugSet}, "debug", "enable debug logging (true/false)")

	fs.Var(&stringFlag{&fv.OutputPath, &fv.OutputPathSet}, "output", "output txt path for -file mode")

	return fv
}

// ApplyFlags applies present flags to the config.
func ApplyFlags(cfg *Config, fv *FlagValues) {
	if fv.DeviceSet {
		cfg.Device = fv.Device
	}
	if fv.PreferredRateSet {
		cfg.PreferredRate = fv.PreferredRate
	}
	if fv.OutputDirSet {
		cfg.OutputDir = fv.OutputDir
	}
	if fv.KeepRecordingsSet {
		cfg.KeepRecordings = fv.KeepRecordings
	}

	if fv.EngineSet {
		cfg.Engine = fv.Engine
	}
	if fv.ModelSet {
		cfg.Model = fv.Model
	}
	if fv.ModelPathSet {
		cfg.ModelPath = fv.ModelPath
	}
	if fv.ModelsDirSet {
		cfg.ModelsDir = fv.ModelsDir
	}
	if fv.LanguageSet {
		cfg.Language = fv.Language
	}
	if fv.ThreadsSet {
		cfg.Threads = fv.Threads
	}
	if fv.IdleTimeoutMinSet {
		cfg.IdleTimeoutMin = fv.IdleTimeoutMin
	}

	if fv.StartKeySet {
		cfg.StartKey = fv.StartKey
	}
	if fv.CancelKeySet {
		cfg.CancelKey = fv.CancelKey
	}
	if fv.HotKeyHookSet {
		cfg.HotKeyHook = fv.HotKeyHook
	}

	if fv.NotificationSet {
		cfg.Notification = fv.Notification
	}
	if fv.DebugSet {
		cfg.Debug = fv.Debug
	}
}

// AnySet reports whether any flag was explicitly set by the user.
func (fv *FlagValues) AnySet() bool {
	return fv.DeviceSet ||
		fv.PreferredRateSet ||
		fv.OutputDirSet ||
		fv.KeepRecordingsSet ||
		fv.EngineSet ||
		fv.ModelSet ||
		fv.ModelPathSet ||
		fv.ModelsDirSet ||
		fv.LanguageSet ||
		fv.ThreadsSet ||
		fv.IdleTimeoutMinSet ||
		fv.StartKeySet ||
		fv.CancelKeySet ||
		fv.HotKeyHookSet ||
		fv.NotificationSet ||
		fv.DebugSet ||
		fv.OutputPathSet
}
