package main

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/shared/config"
)

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	analysis := interviews.Analysis{
		FileName: "panel.mp4",
		BaseName: "panel",
		Result: llm.Result{
			Summary:    "## Summary\n- **Hire**",
			Transcript: "Interviewer: hi",
			MindMap:    "mindmap\n  root((Panel))",
		},
	}

	if err := writeArtifacts(analysis, dir); err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	want := []string{"panel_mindmap.mmd", "panel_report.docx", "panel_report.md", "panel_summary.md", "panel_transcript.txt"}
	if len(names) != len(want) {
		t.Fatalf("files = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("files = %v, want %v", names, want)
		}
	}
}

func TestRootCmdRequiresFile(t *testing.T) {
	cmd := newRootCmd(config.Config{DefaultLanguage: "en", AnalysisMode: "combined", GeminiModel: "gemini-test"})
	cmd.SetArgs([]string{"--mode", "combined"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing --file error")
	}
}

func TestRootCmdRejectsUnknownMode(t *testing.T) {
	cmd := newRootCmd(config.Config{DefaultLanguage: "en", GeminiModel: "gemini-test"})
	cmd.SetArgs([]string{"--file", "call.mp3", "--mode", "parallel"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected invalid mode error")
	}
}
