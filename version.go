package main

import (
	"runtime/debug"
	"time"
)

// Set with -ldflags "-X main.commit=... -X main.buildDate=...".
var (
	commit    = "dev"
	buildDate = ""
)

func init() {
	commit, buildDate = vcsStamp(commit, buildDate)
}

// vcsStamp fills unset build metadata from the VCS settings embedded by the
// go toolchain.
func vcsStamp(c, date string) (string, string) {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && c == "dev" && s.Value != "":
				c = s.Value
				if len(c) > 7 {
					c = c[:7]
				}
			case s.Key == "vcs.time" && date == "":
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					date = t.Format("2006-01-02")
				}
			}
		}
	}
	if date == "" {
		date = "unknown"
	}
	return c, date
}
