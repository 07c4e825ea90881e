package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/fileutil"
	"shuttle/internal/language"
	"shuttle/internal/opensubtitles"
	"shuttle/internal/textutil"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var languagesFlag []string
	var season int
	var episode int
	var year string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search OpenSubtitles for matching subtitles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.subtitleClient()
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			languages := language.NormalizeList(languagesFlag)
			if len(languages) == 0 {
				languages = cfg.OpenSubtitles.Languages
			}

			resp, err := client.Search(cmd.Context(), opensubtitles.SearchRequest{
				Query:     query,
				Languages: languages,
				Season:    season,
				Episode:   episode,
				Year:      year,
			})
			if err != nil {
				return fmt.Errorf("search subtitles: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Subtitles) == 0 {
				fmt.Fprintf(out, "No subtitles found for %q\n", query)
				return nil
			}

			subtitles := resp.Subtitles
			if limit > 0 && len(subtitles) > limit {
				subtitles = subtitles[:limit]
			}

			rows := make([][]string, 0, len(subtitles))
			for _, sub := range subtitles {
				rows = append(rows, []string{
					strconv.FormatInt(sub.FileID, 10),
					language.DisplayName(sub.Language),
					subtitleTitle(sub),
					sub.Release,
					strconv.Itoa(sub.Downloads),
					yesNo(sub.AITranslated),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File ID", "Language", "Title", "Release", "Downloads", "AI"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d of %d result(s) shown\n", len(subtitles), resp.Total)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languagesFlag, "languages", "l", nil, "Languages to search (default from config)")
	cmd.Flags().IntVar(&season, "season", 0, "Season number for episode searches")
	cmd.Flags().IntVar(&episode, "episode", 0, "Episode number for episode searches")
	cmd.Flags().StringVar(&year, "year", "", "Release year filter")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results to display (0 for all)")

	return cmd
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var languagesFlag []string
	var season int
	var episode int
	var year string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "fetch <query>",
		Short: "Download the best OpenSubtitles match for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.subtitleClient()
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			languages := language.NormalizeList(languagesFlag)
			if len(languages) == 0 {
				languages = cfg.OpenSubtitles.Languages
			}

			resp, err := client.Search(cmd.Context(), opensubtitles.SearchRequest{
				Query:     query,
				Languages: languages,
				Season:    season,
				Episode:   episode,
				Year:      year,
			})
			if err != nil {
				return fmt.Errorf("search subtitles: %w", err)
			}
			best, ok := opensubtitles.BestMatch(resp.Subtitles, languages)
			if !ok {
				return fmt.Errorf("no subtitle match for %q in languages %s", query, strings.Join(languages, ", "))
			}

			result, err := client.Download(cmd.Context(), best.FileID)
			if err != nil {
				return fmt.Errorf("download subtitle: %w", err)
			}

			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = fetchOutputName(query, best, result.FileName)
			} else if output, err = config.ExpandPath(output); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("ensure output directory: %w", err)
				}
			}
			if err := fileutil.WriteFileAtomic(output, result.Data, 0o644); err != nil {
				return fmt.Errorf("write subtitle: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d downloads) to %s\n",
				subtitleTitle(best), language.DisplayName(best.Language), best.Downloads, output)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languagesFlag, "languages", "l", nil, "Preferred languages in order (default from config)")
	cmd.Flags().IntVar(&season, "season", 0, "Season number for episode searches")
	cmd.Flags().IntVar(&episode, "episode", 0, "Episode number for episode searches")
	cmd.Flags().StringVar(&year, "year", "", "Release year filter")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (default derived from the title)")

	return cmd
}

func subtitleTitle(sub opensubtitles.Subtitle) string {
	title := strings.TrimSpace(sub.FeatureTitle)
	if title == "" {
		return sub.Release
	}
	if sub.FeatureYear > 0 {
		return fmt.Sprintf("%s (%d)", title, sub.FeatureYear)
	}
	return title
}

// fetchOutputName prefers the API's file name and falls back to a sanitized
// title plus language code.
func fetchOutputName(query string, sub opensubtitles.Subtitle, remoteName string) string {
	if name := textutil.SanitizeFileName(remoteName); name != "" {
		if !strings.EqualFold(filepath.Ext(name), ".srt") {
			name += ".srt"
		}
		return name
	}
	base := textutil.SanitizeFileName(sub.FeatureTitle)
	if base == "" {
		base = textutil.SanitizeToken(query)
	}
	lang := strings.ToLower(strings.TrimSpace(sub.Language))
	if lang == "" {
		return base + ".srt"
	}
	return base + "." + lang + ".srt"
}
