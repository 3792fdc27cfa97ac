// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"time"
)

// ScanStats summarizes one read pass over the log.
type ScanStats struct {
	// Records is the number of valid records returned.
	Records int

	// Skipped is the number of malformed lines passed over: partial
	// writes from a crashed producer, non-record JSON, truncated
	// tails. Skipping is counted but never fatal — one corrupt line
	// must not hide every record after it.
	Skipped int
}

// Tail scan tuning. The scan starts with a small window near the end
// of the file and widens it geometrically. The attempt budget is a
// hard cap: on a log where the sought records simply are not in the
// tail, the scan gives up after reading at most the widest window
// rather than degrading into a full scan of a multi-megabyte file.
const (
	tailInitialWindow = 64 * 1024
	tailWindowFactor  = 4
	tailMaxAttempts   = 4
	tailRetryBackoff  = 10 * time.Millisecond
)

// ReadEvents performs a full forward scan of the log in file order
// and returns at most limit records (limit <= 0 means all). This is
// the forensic/reconstruction read path; "most recent X" consumers
// should use TailEvents so their cost is independent of log size.
//
// A missing file or empty log returns an empty slice, never an error.
func (log *Log) ReadEvents(limit int) []Event {
	events, _ := log.Scan(limit)
	return events
}

// Scan is ReadEvents plus the malformed-line count.
func (log *Log) Scan(limit int) ([]Event, ScanStats) {
	var stats ScanStats

	data, err := os.ReadFile(log.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.logger.Warn("event log read failed", "path", log.path, "error", err)
		}
		return nil, stats
	}

	events := parseLines(data, 0, &stats)
	if limit > 0 && len(events) > limit {
		events = events[:limit]
		stats.Records = limit
	}
	return events, stats
}

// TailEvents returns the last n parseable records in file order. It
// seeks near the end of the file and widens the read window until n
// records are in hand or the beginning of the file is reached, so the
// cost of "the last few events" does not grow with total log size.
func (log *Log) TailEvents(n int) []Event {
	if n <= 0 {
		return nil
	}
	events, _ := log.TailScan(func(parsed []Event) bool {
		return len(parsed) >= n
	})
	if len(events) > n {
		events = events[len(events)-n:]
	}
	return events
}

// TailScan scans backward from the end of the file in widening
// windows. After each window it calls found with every record parsed
// so far (in file order); it stops when found reports success, when
// the window covers the whole file, or when the attempt budget is
// exhausted. The second return value reports whether found ever
// succeeded — callers looking for a marker (a boundary, a session's
// most recent record) treat false as "not present in the bounded
// tail" and fall back to their documented default instead of forcing
// a full scan.
//
// A short backoff separates attempts so that a reader racing a burst
// of writers sees settled whole lines on the retry rather than
// spinning on a moving tail.
func (log *Log) TailScan(found func([]Event) bool) ([]Event, bool) {
	file, err := os.Open(log.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.logger.Warn("event log tail open failed", "path", log.path, "error", err)
		}
		return nil, false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		log.logger.Warn("event log tail stat failed", "path", log.path, "error", err)
		return nil, false
	}
	// The size captured here bounds the scan: appends that land while
	// we widen the window are next read's problem, keeping each call's
	// latency capped even under heavy write traffic.
	end := info.Size()

	var events []Event
	window := int64(tailInitialWindow)
	for attempt := 0; attempt < tailMaxAttempts; attempt++ {
		if attempt > 0 {
			log.clock.Sleep(tailRetryBackoff)
		}

		start := end - window
		if start < 0 {
			start = 0
		}

		buffer := make([]byte, end-start)
		read, err := file.ReadAt(buffer, start)
		if err != nil && err != io.EOF {
			log.logger.Warn("event log tail read failed", "path", log.path, "error", err)
			return events, false
		}
		buffer = buffer[:read]

		offset := start
		if start > 0 {
			// The window almost certainly begins mid-line; discard up
			// to the first newline so parsing starts on a whole line.
			newline := bytes.IndexByte(buffer, '\n')
			if newline < 0 {
				// One line wider than the whole window. Widen.
				window *= tailWindowFactor
				continue
			}
			buffer = buffer[newline+1:]
			offset += int64(newline + 1)
		}

		var stats ScanStats
		events = parseLines(buffer, offset, &stats)

		if found(events) {
			return events, true
		}
		if start == 0 {
			return events, false
		}
		window *= tailWindowFactor
	}
	return events, false
}

// parseLines splits data into newline-terminated records, parsing each
// independently. baseOffset is the file position of data[0]; each
// event's Position is the offset of its own line. Malformed lines are
// counted in stats and skipped.
func parseLines(data []byte, baseOffset int64, stats *ScanStats) []Event {
	var events []Event
	lineStart := 0
	for lineStart < len(data) {
		var line []byte
		advance := bytes.IndexByte(data[lineStart:], '\n')
		if advance < 0 {
			// Final line with no newline: likely a write still in
			// flight or a crash truncation. Try it anyway — if it
			// parses it is a complete record whose newline just
			// hasn't landed.
			line = data[lineStart:]
			advance = len(line)
		} else {
			line = data[lineStart : lineStart+advance]
			advance++ // past the newline
		}

		if event, ok := parseRecord(line); ok {
			event.Position = baseOffset + int64(lineStart)
			event.End = baseOffset + int64(lineStart+advance)
			events = append(events, event)
			stats.Records++
		} else if len(bytes.TrimSpace(line)) > 0 {
			stats.Skipped++
		}

		lineStart += advance
	}
	return events
}

// parseRecord decodes one line as an event record. A line is a record
// only if it is a JSON object carrying the required fields; anything
// else (fragments, arrays, unrelated JSON) is malformed.
func parseRecord(line []byte) (Event, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Event{}, false
	}
	var event Event
	if err := json.Unmarshal(line, &event); err != nil {
		return Event{}, false
	}
	if event.Kind == "" || event.SessionID == "" || event.AgentID == "" {
		return Event{}, false
	}
	return event, true
}
