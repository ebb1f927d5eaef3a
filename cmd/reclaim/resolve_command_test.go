package main

import (
	"bytes"
	"strings"
	"testing"

	"reclaim/internal/resolve"
)

func TestBuildDeciderPrefersTerminalWhenAvailable(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer

	// A terminal gets a prompt-capable decider even for automatic runs, so
	// multi-model groups can still ask for a model choice.
	if _, ok := buildDecider(in, &out, true).(*resolve.TerminalDecider); !ok {
		t.Fatal("expected a TerminalDecider when stdin is a terminal")
	}

	if _, ok := buildDecider(in, &out, false).(resolve.HeadlessDecider); !ok {
		t.Fatal("expected a HeadlessDecider without a terminal")
	}
}
