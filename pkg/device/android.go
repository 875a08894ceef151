package device

import (
	"strings"

	"igmobile/pkg/errors"
)

// AndroidVersion is a release of the Android OS as sent in configure requests
type AndroidVersion struct {
	Codename string
	Release  string
	APILevel string
}

var androidVersions = []AndroidVersion{
	{Codename: "KitKat", Release: "4.4", APILevel: "19"},
	{Codename: "Lollipop", Release: "5.0", APILevel: "21"},
	{Codename: "Lollipop", Release: "5.1", APILevel: "22"},
	{Codename: "Marshmallow", Release: "6.0", APILevel: "23"},
	{Codename: "Nougat", Release: "7.0", APILevel: "24"},
	{Codename: "Nougat", Release: "7.1", APILevel: "25"},
	{Codename: "Oreo", Release: "8.0", APILevel: "26"},
	{Codename: "Oreo", Release: "8.1", APILevel: "27"},
	{Codename: "Pie", Release: "9", APILevel: "28"},
	{Codename: "Android 10", Release: "10", APILevel: "29"},
}

// LookupAndroidVersion finds the version for a release string such as
// "7.0", "6.0.1" or "8.1.0". Patch levels are ignored.
func LookupAndroidVersion(release string) (AndroidVersion, error) {
	release = strings.TrimSpace(release)
	candidates := []string{release}
	if parts := strings.Split(release, "."); len(parts) > 2 {
		candidates = append(candidates, strings.Join(parts[:2], "."))
	}
	if strings.HasSuffix(release, ".0") {
		candidates = append(candidates, strings.TrimSuffix(release, ".0"))
	}

	for _, c := range candidates {
		for _, v := range androidVersions {
			if v.Release == c {
				return v, nil
			}
		}
	}
	return AndroidVersion{}, errors.InvalidArgument("unsupported android version %q", release)
}
