// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Breadcrumb is the parsed form of the five-component locator embedded
// in every record:
//
//	s_<session>/c_<cycle>/g_<revision>/p_<request>/t_<unix-seconds>
//
// Each component carries a fixed single-letter prefix so a truncated
// or reordered breadcrumb is detectable. Breadcrumbs are forensic
// metadata: a malformed one parses to the zero value rather than an
// error, because rejecting the whole record over a cosmetic field
// would discard the fact it records.
type Breadcrumb struct {
	Session   string
	Cycle     int
	Revision  string
	Request   string
	Timestamp int64
}

// FormatBreadcrumb builds the wire form of a breadcrumb.
func FormatBreadcrumb(session string, cycle int, revision, request string, unixSeconds int64) string {
	return fmt.Sprintf("s_%s/c_%d/g_%s/p_%s/t_%d", session, cycle, revision, request, unixSeconds)
}

// String returns the wire form.
func (b Breadcrumb) String() string {
	return FormatBreadcrumb(b.Session, b.Cycle, b.Revision, b.Request, b.Timestamp)
}

// ParseBreadcrumb extracts the components of a breadcrumb string.
// Components that are missing or carry the wrong prefix are left at
// their zero value; ok is false when any component failed. Callers
// that only need the cycle number can ignore ok and rely on Cycle
// being 0 for "unknown".
func ParseBreadcrumb(s string) (breadcrumb Breadcrumb, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 5 {
		return Breadcrumb{}, false
	}

	ok = true
	if value, found := strings.CutPrefix(parts[0], "s_"); found {
		breadcrumb.Session = value
	} else {
		ok = false
	}
	if value, found := strings.CutPrefix(parts[1], "c_"); found {
		cycle, err := strconv.Atoi(value)
		if err != nil {
			ok = false
		} else {
			breadcrumb.Cycle = cycle
		}
	} else {
		ok = false
	}
	if value, found := strings.CutPrefix(parts[2], "g_"); found {
		breadcrumb.Revision = value
	} else {
		ok = false
	}
	if value, found := strings.CutPrefix(parts[3], "p_"); found {
		breadcrumb.Request = value
	} else {
		ok = false
	}
	if value, found := strings.CutPrefix(parts[4], "t_"); found {
		timestamp, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			ok = false
		} else {
			breadcrumb.Timestamp = timestamp
		}
	} else {
		ok = false
	}

	return breadcrumb, ok
}

// CycleFromBreadcrumb returns the cycle component of a breadcrumb
// string, or 0 when the breadcrumb does not parse. Query predicates
// use this for cycle-number matching without caring about the other
// components.
func CycleFromBreadcrumb(s string) int {
	breadcrumb, _ := ParseBreadcrumb(s)
	return breadcrumb.Cycle
}
