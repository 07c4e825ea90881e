package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"shuttle/internal/chunking"
	"shuttle/internal/config"
	"shuttle/internal/fileutil"
	"shuttle/internal/language"
	"shuttle/internal/logging"
	"shuttle/internal/requestlog"
	"shuttle/internal/services/llm"
	"shuttle/internal/subtitles"
	"shuttle/internal/translator"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var targetFlag string
	var sourceFlag string
	var outputFlag string
	var modelFlag string
	var maxChunkSize int
	var contextSize int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "translate <input.srt>",
		Short: "Translate an SRT subtitle file to the target language",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to the subtitle file. Example: shuttle translate movie.srt --target es")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolveInputFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			target := strings.TrimSpace(targetFlag)
			if target == "" {
				target = cfg.Translation.TargetLanguage
			}
			targetInfo, ok := language.Lookup(target)
			if !ok {
				return fmt.Errorf("unknown target language %q; run `shuttle languages` for the supported list", target)
			}

			source := strings.TrimSpace(sourceFlag)
			if source == "" {
				source = cfg.Translation.SourceLanguage
			}
			sourceName := ""
			if source != "" && !strings.EqualFold(source, "auto") {
				info, ok := language.Lookup(source)
				if !ok {
					return fmt.Errorf("unknown source language %q; run `shuttle languages` for the supported list", source)
				}
				sourceName = info.Name
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			segments := subtitles.Parse(string(data))
			if len(segments) == 0 {
				return fmt.Errorf("no subtitle segments found in %s", input)
			}

			chunkOpts := chunking.Options{
				MaxChunkSize:         cfg.Translation.MaxChunkSize,
				ContextSize:          cfg.Translation.ContextSize,
				BreakThresholdMillis: cfg.Translation.NaturalBreakMS,
			}
			if maxChunkSize > 0 {
				chunkOpts.MaxChunkSize = maxChunkSize
			}
			if cmd.Flags().Changed("context-size") {
				chunkOpts.ContextSize = contextSize
			}
			plan := chunking.Plan(segments, chunkOpts)

			out := cmd.OutOrStdout()
			if dryRun {
				printChunkPlan(out, input, segments, plan)
				return nil
			}

			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = defaultOutputPath(input, targetInfo.Code2)
			} else if output, err = config.ExpandPath(output); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			logger, err := newRunLogger(cfg, isTerminal(out))
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			llmCfg := cfg.GetLLM()
			if model := strings.TrimSpace(modelFlag); model != "" {
				llmCfg.Model = model
			}
			client := llm.NewClient(llm.Config{
				APIKey:         llmCfg.APIKey,
				BaseURL:        llmCfg.BaseURL,
				Model:          llmCfg.Model,
				Referer:        llmCfg.Referer,
				Title:          llmCfg.Title,
				TimeoutSeconds: llmCfg.TimeoutSeconds,
			})

			opts := []translator.Option{translator.WithLogger(logger)}
			journal, err := requestlog.Open(cfg.Paths.JournalPath)
			if err != nil {
				logger.Warn("request journal unavailable", logging.Error(err))
			} else {
				defer journal.Close()
				opts = append(opts, translator.WithJournal(journal))
			}

			service, err := translator.NewService(translator.NewLLMBackend(client), translator.Config{
				SourceLang:           sourceName,
				TargetLang:           targetInfo.Name,
				MaxChunkSize:         chunkOpts.MaxChunkSize,
				ContextSize:          chunkOpts.ContextSize,
				BreakThresholdMillis: chunkOpts.BreakThresholdMillis,
				MaxAttempts:          cfg.Translation.MaxAttempts,
				RetryDelay:           time.Duration(cfg.Translation.RetryDelayMS) * time.Millisecond,
			}, opts...)
			if err != nil {
				return fmt.Errorf("init translator: %w", err)
			}

			live := isTerminal(out)
			onProgress := func(p translator.Progress) {
				if live {
					fmt.Fprintf(out, "\rTranslating %d/%d segments (%d%%)", p.Completed, p.Total, p.Percentage)
					return
				}
				fmt.Fprintf(out, "translated %d/%d segments (%d%%)\n", p.Completed, p.Total, p.Percentage)
			}

			start := time.Now()
			translated, err := service.TranslateFile(cmd.Context(), string(data), onProgress)
			if live {
				fmt.Fprintln(out)
			}
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}

			if err := fileutil.WriteFileAtomic(output, []byte(translated), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			duration := time.Since(start).Round(time.Second)
			fmt.Fprintln(out, renderTable(
				[]string{"Segments", "Chunks", "Target", "Model", "Duration"},
				[][]string{{
					strconv.Itoa(len(segments)),
					strconv.Itoa(len(plan)),
					targetInfo.Name,
					llmCfg.Model,
					duration.String(),
				}},
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetFlag, "target", "t", "", "Target language (code or name; default from config)")
	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Source language hint (default from config, auto-detect when empty)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (default <input>.<target>.srt)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Override the configured LLM model")
	cmd.Flags().IntVar(&maxChunkSize, "max-chunk-size", 0, "Maximum segments per translation request")
	cmd.Flags().IntVar(&contextSize, "context-size", 0, "Preceding segments sent as context with each chunk")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the chunking and print it without calling the backend")

	return cmd
}

func resolveInputFile(arg string) (string, error) {
	input := strings.TrimSpace(arg)
	if input == "" {
		return "", fmt.Errorf("input file path is required")
	}
	input, err := config.ExpandPath(input)
	if err != nil {
		return "", fmt.Errorf("resolve input path: %w", err)
	}
	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("input file %q not found", input)
		}
		return "", fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("input path %q is a directory", input)
	}
	return input, nil
}

// defaultOutputPath derives movie.es.srt from movie.srt and es.
func defaultOutputPath(input, code string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".srt"
	}
	return base + "." + code + ext
}

func printChunkPlan(out io.Writer, input string, segments []subtitles.Segment, plan []chunking.Chunk) {
	fmt.Fprintf(out, "Planned %d chunk(s) for %d segments in %s\n", len(plan), len(segments), filepath.Base(input))
	rows := make([][]string, 0, len(plan))
	for _, chunk := range plan {
		first := chunk.Segments[0]
		last := chunk.Segments[len(chunk.Segments)-1]
		rows = append(rows, []string{
			chunk.Label(),
			strconv.Itoa(len(chunk.Segments)),
			strconv.Itoa(len(chunk.Context)),
			fmt.Sprintf("%d-%d", first.Sequence, last.Sequence),
			first.Start + " - " + last.End,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Chunk", "Segments", "Context", "Sequence", "Span"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
}

func newRunLogger(cfg *config.Config, quietConsole bool) (*slog.Logger, error) {
	outputs := []string{"stdout"}
	if quietConsole {
		outputs = nil
	}
	if dir := cfg.Paths.LogDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		outputs = append(outputs, filepath.Join(dir, logging.LogFileName))
	}
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Development: cfg.Logging.Development,
	})
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
