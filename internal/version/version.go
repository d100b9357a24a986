// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/samber/lo"
)

// Build information. Populated at build-time with -ldflags "-X ...".
var (
	Version   = "development"
	Revision  string
	BuildDate string
)

// Print returns a short description of this build.
func Print() string {
	info, _ := debug.ReadBuildInfo()
	rev, tags := revision(info)
	if Revision != "" {
		rev = Revision
	}

	lines := []string{
		"version:    " + Version,
		"revision:   " + rev,
		"go version: " + runtime.Version(),
		"platform:   " + runtime.GOOS + "/" + runtime.GOARCH,
	}

	if BuildDate != "" {
		lines = append(lines, "build date: "+BuildDate)
	}

	if tags != "" {
		lines = append(lines, "build tags: "+tags)
	}

	return strings.Join(lines, "\n")
}

// Modules lists the modules compiled into the binary, one per line.
func Modules() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	width := lo.Max(lo.Map(info.Deps, func(d *debug.Module, _ int) int { return len(d.Path) }))

	buf := new(strings.Builder)
	for _, d := range info.Deps {
		if d.Replace != nil {
			d = d.Replace
		}
		fmt.Fprintf(buf, "%-*s %s\n", width, d.Path, d.Version)
	}

	return buf.String()
}

func revision(info *debug.BuildInfo) (rev, tags string) {
	rev = "<unknown>"
	if info == nil {
		return rev, tags
	}

	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		case "-tags":
			tags = s.Value
		}
	}

	if modified {
		rev += "-modified"
	}

	return rev, tags
}
