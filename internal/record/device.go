package record

// DefaultDeviceName selects the host's default input device.
const DefaultDeviceName = "default"

// DefaultTargetRate is the capture rate requested when the caller has no
// preference. It matches the canonical transcription rate so most
// recordings skip resampling entirely.
const DefaultTargetRate = 16000

// ResolveDevice finds an input device by exact name, or the host default
// for DefaultDeviceName.
func ResolveDevice(host Host, name string) (Device, error) {
	if name == "" || name == DefaultDeviceName {
		dev, err := host.DefaultInputDevice()
		if err != nil {
			return nil, &DeviceEnumerationError{Err: err}
		}
		return dev, nil
	}
	devs, err := host.InputDevices()
	if err != nil {
		return nil, &DeviceEnumerationError{Err: err}
	}
	for _, d := range devs {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, &DeviceNotFoundError{Name: name}
}

// Negotiate picks the stream configuration closest to the preferred rate.
// Preference order: a mono config covering the rate exactly, then any
// config covering it, then the mono config with the nearest range
// endpoint, then the first compatible config clamped to its minimum rate.
func Negotiate(device string, configs []SupportedConfig, preferredRate int) (StreamConfig, error) {
	if preferredRate <= 0 {
		preferredRate = DefaultTargetRate
	}
	if len(configs) == 0 {
		return StreamConfig{}, &NoSupportedConfigError{Device: device}
	}

	var compatible []SupportedConfig
	for _, c := range configs {
		if compatibleFormat(c.Format) {
			compatible = append(compatible, c)
		}
	}
	if len(compatible) == 0 {
		return StreamConfig{}, &NoCompatibleFormatError{Device: device}
	}

	covers := func(c SupportedConfig) bool {
		return c.MinRate <= preferredRate && preferredRate <= c.MaxRate
	}

	for _, c := range compatible {
		if c.Channels == 1 && covers(c) {
			return StreamConfig{Channels: 1, SampleRate: preferredRate, Format: c.Format}, nil
		}
	}
	for _, c := range compatible {
		if covers(c) {
			return StreamConfig{Channels: c.Channels, SampleRate: preferredRate, Format: c.Format}, nil
		}
	}

	best := -1
	bestDist := 0
	bestRate := 0
	for i, c := range compatible {
		if c.Channels != 1 {
			continue
		}
		for _, endpoint := range []int{c.MinRate, c.MaxRate} {
			dist := endpoint - preferredRate
			if dist < 0 {
				dist = -dist
			}
			if best == -1 || dist < bestDist {
				best, bestDist, bestRate = i, dist, endpoint
			}
		}
	}
	if best >= 0 {
		c := compatible[best]
		return StreamConfig{Channels: 1, SampleRate: bestRate, Format: c.Format}, nil
	}

	c := compatible[0]
	return StreamConfig{Channels: c.Channels, SampleRate: c.MinRate, Format: c.Format}, nil
}
