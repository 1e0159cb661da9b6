// Package variables resolves the symbolic keys that may appear in
// configuration item text, e.g. "&device_model;" or "random_email".
package variables

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Device keys.
const (
	KeyDeviceManufacturer   = "device_manufacturer"
	KeyDeviceModel          = "device_model"
	KeyDeviceOSVersion      = "device_os_version"
	KeyDeviceAndroidVersion = "device_android_version"
	KeyDeviceIPAddress      = "device_ip_address"
)

// DefaultAddressFailure is returned for device_ip_address when no address
// could be found.
const DefaultAddressFailure = "IP address unavailable"

var errNoAddress = errors.New("no non-loopback IPv4 address")

var deviceKeys = []string{
	KeyDeviceManufacturer,
	KeyDeviceModel,
	KeyDeviceOSVersion,
	KeyDeviceAndroidVersion,
	KeyDeviceIPAddress,
}

// Options configure a Provider. Zero values select the host lookups.
type Options struct {
	Device         DeviceFunc
	Address        AddressFunc
	AddressFailure string
	// Seed for the random generators. Zero picks a random seed.
	Seed uint64
}

// Provider is a lookup table from variable keys to values. Device values
// are looked up once; the IP address is cached until Clear; random values
// are generated on every call.
type Provider struct {
	logger zerolog.Logger
	opts   Options
	fakers *fakers

	deviceOnce sync.Once
	device     Device

	mu      sync.Mutex
	address string
}

// New creates a Provider.
func New(opts Options, logger zerolog.Logger) *Provider {
	if opts.Device == nil {
		opts.Device = HostDevice
	}
	if opts.Address == nil {
		opts.Address = LocalIPv4
	}
	if opts.AddressFailure == "" {
		opts.AddressFailure = DefaultAddressFailure
	}
	return &Provider{
		logger: logger.With().Str("component", "variables").Logger(),
		opts:   opts,
		fakers: newFakers(opts.Seed),
	}
}

// Clear drops the cached IP address.
func (p *Provider) Clear() {
	p.mu.Lock()
	p.address = ""
	p.mu.Unlock()
}

// IsVariableKey reports whether key names a known variable.
func (p *Provider) IsVariableKey(key string) bool {
	if slices.Contains(deviceKeys, key) {
		return true
	}
	_, ok := randomKeys[key]
	return ok
}

// Value returns the value for key, or false for an unknown key.
func (p *Provider) Value(key string) (string, bool) {
	switch key {
	case KeyDeviceManufacturer:
		return p.deviceInfo().Manufacturer, true
	case KeyDeviceModel:
		return p.deviceInfo().Model, true
	case KeyDeviceOSVersion, KeyDeviceAndroidVersion:
		return p.deviceInfo().OSVersion, true
	case KeyDeviceIPAddress:
		return p.ipAddress(), true
	}
	gen, ok := randomKeys[key]
	if !ok {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen(p.fakers), true
}

// Keys lists every known key, device keys first.
func (p *Provider) Keys() []string {
	keys := slices.Clone(deviceKeys)
	random := make([]string, 0, len(randomKeys))
	for k := range randomKeys {
		random = append(random, k)
	}
	slices.Sort(random)
	return append(keys, random...)
}

func (p *Provider) deviceInfo() Device {
	p.deviceOnce.Do(func() {
		d, err := p.opts.Device(context.Background())
		if err != nil {
			p.logger.Warn().Err(err).Msg("Device lookup failed")
		}
		p.device = d
	})
	return p.device
}

func (p *Provider) ipAddress() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.address == "" {
		addr, err := p.opts.Address()
		if err != nil {
			p.logger.Debug().Err(err).Msg("IP address lookup failed")
			addr = p.opts.AddressFailure
		}
		p.address = addr
	}
	return p.address
}
