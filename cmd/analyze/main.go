package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/llm/gemini"
	"interview-summarizer/internal/shared/config"
	"interview-summarizer/internal/shared/storage/object/local"
)

type analyzeFlags struct {
	file  string
	lang  string
	mode  string
	model string
	out   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(config.Load()).ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	flags := analyzeFlags{
		lang:  cfg.DefaultLanguage,
		mode:  cfg.AnalysisMode,
		model: cfg.GeminiModel,
	}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize one interview recording or image with Gemini",
		Long: `Uploads a local audio, video or image file to Gemini and prints the
full Markdown report. With --out every download (summary, mind map,
transcript, report and DOCX report) is written to that directory.

The API key is read from GEMINI_API_KEY.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, cfg, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Path to an interview recording or image")
	cmd.Flags().StringVar(&flags.lang, "lang", flags.lang, "Output language (zh or en)")
	cmd.Flags().StringVar(&flags.mode, "mode", flags.mode, "Analysis mode (combined or separate)")
	cmd.Flags().StringVar(&flags.model, "model", flags.model, "Gemini model")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Directory to write all downloads to")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg config.Config, flags analyzeFlags) error {
	if strings.TrimSpace(flags.file) == "" {
		return fmt.Errorf("file path is required")
	}
	mode, err := llm.ParseMode(flags.mode)
	if err != nil {
		return err
	}

	stageDir, err := os.MkdirTemp("", "interview-analyze-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stageDir)

	f, err := os.Open(flags.file)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	svc := &interviews.Service{
		Store: local.New(stageDir),
		NewClient: gemini.NewFactory(gemini.Options{
			Model:        flags.model,
			Timeout:      cfg.GeminiTimeout,
			PollInterval: cfg.GeminiPollInterval,
			PollTimeout:  cfg.GeminiPollTimeout,
		}),
		DefaultAPIKey: cfg.GeminiAPIKey,
		Mode:          mode,
		Model:         flags.model,
	}

	analysis, err := svc.Analyze(cmd.Context(), interviews.AnalyzeRequest{
		Owner:    "cli",
		Language: flags.lang,
		FileName: filepath.Base(flags.file),
		Body:     f,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if flags.out != "" {
		if err := writeArtifacts(analysis, flags.out); err != nil {
			return err
		}
	}

	report, err := interviews.BuildArtifact(analysis, interviews.ArtifactReport)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	w := cmd.OutOrStdout()
	if _, err := w.Write(report.Body); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	if len(report.Body) == 0 || report.Body[len(report.Body)-1] != '\n' {
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

func writeArtifacts(analysis interviews.Analysis, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, kind := range interviews.ArtifactKinds() {
		artifact, err := interviews.BuildArtifact(analysis, kind)
		if err != nil {
			return fmt.Errorf("build %s: %w", kind, err)
		}
		if err := os.WriteFile(filepath.Join(dir, artifact.FileName), artifact.Body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", artifact.FileName, err)
		}
	}
	return nil
}
