package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anrid/covid-qaly/pkg/dataset"
)

func TestCreateWritesSnapshotOnce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "covid-qaly.json")

	run := func() string {
		var buf bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--out", out})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("create: %v", err)
		}
		return buf.String()
	}

	if first := run(); !strings.Contains(first, "Saved:") {
		t.Fatalf("expected snapshot to be saved:\n%s", first)
	}
	if second := run(); strings.Contains(second, "Saved:") {
		t.Fatalf("expected existing snapshot to be reused:\n%s", second)
	}

	db, found, err := dataset.LoadIfExists(out)
	if err != nil || !found {
		t.Fatalf("expected snapshot, got found=%v err=%v", found, err)
	}
	if db.Source != "embedded" || len(db.Studies) != 3 {
		t.Fatalf("unexpected snapshot: %s, %d studies", db.Source, len(db.Studies))
	}
}
