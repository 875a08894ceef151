// Package device describes the Android handset the client presents itself as.
package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"igmobile/pkg/errors"
)

// AppVersion is the mobile application version announced in the user agent
const AppVersion = "10.26.0"

// Identity is the emulated device. It is created once per client and never
// mutated afterwards; it is persisted together with the session.
type Identity struct {
	DeviceGUID           uuid.UUID `json:"device_guid"`
	PhoneGUID            uuid.UUID `json:"phone_guid"`
	GoogleAdID           uuid.UUID `json:"google_ad_id"`
	DeviceID             string    `json:"device_id"`
	HardwareManufacturer string    `json:"hardware_manufacturer"`
	HardwareModel        string    `json:"hardware_model"`
	FirmwareBrand        string    `json:"firmware_brand"`
	FirmwareFingerprint  string    `json:"firmware_fingerprint"`
	DPI                  string    `json:"dpi"`
	Resolution           string    `json:"resolution"`
	Chipset              string    `json:"chipset"`
	UserAgent            string    `json:"user_agent"`
}

// Preset is a real handset the identity can be modeled on
type Preset struct {
	Manufacturer string
	Model        string
	Brand        string
	Fingerprint  string
	DPI          string
	Resolution   string
	Chipset      string
}

var presets = map[string]Preset{
	"samsung-galaxy-s7-edge": {
		Manufacturer: "samsung",
		Model:        "SM-G935F",
		Brand:        "hero2lte",
		Fingerprint:  "samsung/hero2ltexx/hero2lte:7.0/NRD90M/G935FXXU1DQB7:user/release-keys",
		DPI:          "640dpi",
		Resolution:   "1440x2560",
		Chipset:      "samsungexynos8890",
	},
	"lg-g5": {
		Manufacturer: "LGE",
		Model:        "LG-H850",
		Brand:        "h1",
		Fingerprint:  "lge/h1_global_com/h1:7.0/NRD90U/1707917149a0a:user/release-keys",
		DPI:          "640dpi",
		Resolution:   "1440x2392",
		Chipset:      "h1",
	},
	"htc-10": {
		Manufacturer: "HTC",
		Model:        "HTC 10",
		Brand:        "htc_pmewl",
		Fingerprint:  "htc/pmewl_00531/htc_pmewl:7.0/NRD90M/832742.6:user/release-keys",
		DPI:          "640dpi",
		Resolution:   "1440x2560",
		Chipset:      "qcom",
	},
	"google-pixel": {
		Manufacturer: "Google",
		Model:        "Pixel",
		Brand:        "sailfish",
		Fingerprint:  "google/sailfish/sailfish:8.1.0/OPM1.171019.011/4448085:user/release-keys",
		DPI:          "420dpi",
		Resolution:   "1080x1794",
		Chipset:      "qcom",
	},
	"oneplus-3t": {
		Manufacturer: "OnePlus",
		Model:        "ONEPLUS A3010",
		Brand:        "OnePlus3T",
		Fingerprint:  "OnePlus/OnePlus3T/OnePlus3T:6.0.1/MMB29M/10281213:user/release-keys",
		DPI:          "480dpi",
		Resolution:   "1080x1920",
		Chipset:      "qcom",
	},
}

// Presets returns the names of the known handsets, sorted
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a fresh identity modeled on the named preset
func New(preset string) (*Identity, error) {
	p, ok := presets[preset]
	if !ok {
		return nil, errors.InvalidArgument("unknown device preset %q", preset)
	}
	return FromPreset(p), nil
}

// FromPreset creates a fresh identity with newly generated identifiers
func FromPreset(p Preset) *Identity {
	deviceGUID := uuid.New()
	id := &Identity{
		DeviceGUID:           deviceGUID,
		PhoneGUID:            uuid.New(),
		GoogleAdID:           uuid.New(),
		DeviceID:             "android-" + strings.ReplaceAll(deviceGUID.String(), "-", "")[:16],
		HardwareManufacturer: p.Manufacturer,
		HardwareModel:        p.Model,
		FirmwareBrand:        p.Brand,
		FirmwareFingerprint:  p.Fingerprint,
		DPI:                  p.DPI,
		Resolution:           p.Resolution,
		Chipset:              p.Chipset,
	}
	id.UserAgent = id.buildUserAgent()
	return id
}

func (d *Identity) buildUserAgent() string {
	api, release := "0", "0"
	if v, err := d.AndroidVersion(); err == nil {
		api, release = v.APILevel, v.Release
	}
	return fmt.Sprintf("Instagram %s Android (%s/%s; %s; %s; %s; %s; %s; %s; en_US)",
		AppVersion, api, release, d.DPI, d.Resolution,
		d.HardwareManufacturer, d.HardwareModel, d.FirmwareBrand, d.Chipset)
}

// AndroidVersion parses the OS release out of the firmware fingerprint
// ("brand/product/device:RELEASE/build/...").
func (d *Identity) AndroidVersion() (AndroidVersion, error) {
	parts := strings.Split(d.FirmwareFingerprint, "/")
	if len(parts) < 3 {
		return AndroidVersion{}, errors.InvalidArgument("malformed firmware fingerprint %q", d.FirmwareFingerprint)
	}
	deviceAndRelease := strings.SplitN(parts[2], ":", 2)
	if len(deviceAndRelease) != 2 {
		return AndroidVersion{}, errors.InvalidArgument("malformed firmware fingerprint %q", d.FirmwareFingerprint)
	}
	return LookupAndroidVersion(deviceAndRelease[1])
}
