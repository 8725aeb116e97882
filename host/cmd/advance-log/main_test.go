package main

import (
	"bytes"
	"strings"
	"testing"

	"advance/protocol"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		rec      protocol.Record
		color    bool
		expected string
	}{
		{protocol.Record{Level: 3, Stamp: 42, Text: "ready"}, false, "        42 INFO  ready"},
		{protocol.Record{Level: 3, Stamp: 42, Text: "ready"}, true, "        42 INFO  ready"},
		{protocol.Record{Level: 2, Stamp: 7, Text: "slow"}, true, "\x1b[33m         7 WARN  slow\x1b[0m"},
		{protocol.Record{Level: 9, Stamp: 0, Text: "odd"}, true, "         0 L9    odd"},
	}

	for i, tc := range testCases {
		if got := format(tc.rec, tc.color); got != tc.expected {
			t.Errorf("Test case %d: format = %q, want %q", i, got, tc.expected)
		}
	}
}

func TestPrintRecordsFiltersLevel(t *testing.T) {
	records := make(chan protocol.Record, 3)
	records <- protocol.Record{Level: 1, Text: "error"}
	records <- protocol.Record{Level: 4, Text: "debug"}
	records <- protocol.Record{Level: 3, Text: "info"}
	close(records)

	var out bytes.Buffer
	n := printRecords(&out, records, 3, false)
	if n != 3 {
		t.Errorf("received %d records", n)
	}
	if strings.Contains(out.String(), "debug") || strings.Count(out.String(), "\n") != 2 {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestColorMode(t *testing.T) {
	if on, _ := colorMode("auto", true); !on {
		t.Error("auto on a terminal is off")
	}
	if on, _ := colorMode("always", false); !on {
		t.Error("always is off")
	}
	if _, err := colorMode("sometimes", true); err == nil {
		t.Error("bad mode accepted")
	}
}
