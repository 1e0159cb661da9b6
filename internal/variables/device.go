package variables

import (
	"context"
	"net"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/product"
	"github.com/shirou/gopsutil/v4/host"
)

// UnknownDevice is reported for descriptor fields the host does not expose.
const UnknownDevice = "unknown"

// Device describes the machine the engine runs on.
type Device struct {
	Manufacturer string `yaml:"manufacturer" json:"manufacturer"`
	Model        string `yaml:"model"        json:"model"`
	OSVersion    string `yaml:"os_version"   json:"os_version"`
}

// DeviceFunc looks up the device descriptor.
type DeviceFunc func(ctx context.Context) (Device, error)

// HostDevice reads the descriptor from the host. Manufacturer and model
// are the DMI system vendor and product name; the OS version comes from
// gopsutil.
func HostDevice(ctx context.Context) (Device, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Device{}, err
	}
	// Not every platform exposes DMI data.
	p, _ := readProduct(ctx, ghw.WithDisableWarnings())
	return deviceFrom(info, p), nil
}

func readProduct(args ...any) (*product.Info, error) {
	return ghw.Product(args...)
}

// deviceFrom builds the descriptor. Without a DMI vendor a virtual
// machine guest reports its hypervisor as manufacturer.
func deviceFrom(info *host.InfoStat, p *product.Info) Device {
	d := Device{OSVersion: info.PlatformVersion}
	if p != nil {
		d.Manufacturer = dmiValue(p.Vendor)
		d.Model = dmiValue(p.Name)
	}
	if d.Manufacturer == "" && info.VirtualizationRole == "guest" {
		d.Manufacturer = info.VirtualizationSystem
	}
	if d.Manufacturer == "" {
		d.Manufacturer = UnknownDevice
	}
	if d.Model == "" {
		d.Model = UnknownDevice
	}
	return d
}

// dmiValue drops the placeholders firmware vendors leave in DMI fields.
func dmiValue(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", UnknownDevice, "to be filled by o.e.m.", "system product name", "system manufacturer", "default string":
		return ""
	}
	return v
}

// AddressFunc returns the device's IPv4 address.
type AddressFunc func() (string, error)

// LocalIPv4 returns the first non-loopback IPv4 address of any interface.
func LocalIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", errNoAddress
}
