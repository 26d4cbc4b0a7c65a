package pushclient

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"
)

// DeviceID returns the identifier a device registers under.
// Without a stable platform identifier it falls back to "device-<unix millis>",
// which changes on every cold start.
func DeviceID(device Device, now func() time.Time) string {
	if id, ok := device.StableIdentifier(); ok && id != "" {
		return id
	}
	return "device-" + strconv.FormatInt(now().UnixMilli(), 10)
}

// Host identity sources, most stable first
var defaultIDSources = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
	"/sys/class/dmi/id/product_uuid",
}

// HostDevice is a Device backed by the machine the process runs on.
// It is used by the registrar simulator.
type HostDevice struct {
	platform  string
	simulator bool
	sources   []string
}

func NewHostDevice(platform string, simulator bool) *HostDevice {
	return &HostDevice{
		platform:  platform,
		simulator: simulator,
		sources:   defaultIDSources,
	}
}

// WithIDSources replaces the files the stable identifier is read from
func (h *HostDevice) WithIDSources(paths ...string) *HostDevice {
	h.sources = paths
	return h
}

func (h *HostDevice) IsPhysicalDevice() bool {
	return !h.simulator
}

func (h *HostDevice) Platform() string {
	return h.platform
}

// StableIdentifier hashes the first readable machine identifier
func (h *HostDevice) StableIdentifier() (string, bool) {
	for _, path := range h.sources {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		id := strings.TrimSpace(string(raw))
		if id == "" {
			continue
		}
		sum := sha256.Sum256([]byte(id))
		return hex.EncodeToString(sum[:16]), true
	}
	return "", false
}
