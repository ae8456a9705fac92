// Package buildinfo carries values stamped in with -ldflags "-X".
package buildinfo

import "fmt"

const Graffiti = " _ __ __ _ _ __   __ _  ___  \n| '__/ _` | '_ \\ / _` |/ _ \\ \n| | | (_| | | | | (_| | (_) |\n|_|  \\__,_|_| |_|\\__, |\\___/ \n                 |___/       \n\n"

var (
	BuildTag = "v0.0.0"
	Name     = "RANGO"
	Time     = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	if Time == "" {
		return "unknown build time"
	}
	return Time
}

// String is the banner line printed at startup.
func (b buildinfo) String() string {
	return fmt.Sprintf("%s: %s, %s", b.Name(), b.Time(), b.Tag())
}

var Info buildinfo
