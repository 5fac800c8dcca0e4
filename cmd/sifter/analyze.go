package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cleanfeed/sifter/internal/analyzer"
	"github.com/cleanfeed/sifter/internal/catalog"
	"github.com/cleanfeed/sifter/internal/classifier"
	"github.com/cleanfeed/sifter/internal/cli"
	"github.com/cleanfeed/sifter/internal/common"
	"github.com/cleanfeed/sifter/internal/matcher"
	"github.com/cleanfeed/sifter/internal/model"
	"github.com/cleanfeed/sifter/internal/oracle"
	"github.com/cleanfeed/sifter/internal/reasoning"
	"github.com/cleanfeed/sifter/internal/storage"
)

func analyzeCmd() *cobra.Command {
	var (
		title        string
		description  string
		transcript   string
		patternsPath string
		asJSON       bool
		withReport   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single video for paid product placement",
		Example: `  sifter analyze --title "신제품 리뷰 #광고" --description "협찬 받은 제품입니다"
  sifter analyze --title "주말 브이로그" --report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if title == "" && description == "" && transcript == "" {
				return fmt.Errorf("provide at least one of --title, --description, --transcript")
			}

			a, cleanup, err := buildAnalyzer(patternsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			result := a.AnalyzeOne(cmd.Context(), model.AnalysisInput{
				VideoTitle:        title,
				VideoDescription:  description,
				TranscriptExcerpt: transcript,
			})

			return printResult(result, asJSON, withReport)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "video title")
	cmd.Flags().StringVar(&description, "description", "", "video description")
	cmd.Flags().StringVar(&transcript, "transcript", "", "transcript excerpt")
	cmd.Flags().StringVar(&patternsPath, "patterns", "", "custom pattern catalog file (YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	cmd.Flags().BoolVar(&withReport, "report", false, "print the full human-readable reasoning report")

	return cmd
}

func batchCmd() *cobra.Command {
	var (
		inputPath    string
		outputPath   string
		patternsPath string
		concurrency  int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze a batch of videos from a YAML or JSON file",
		Example: `  sifter batch --input videos.yaml
  sifter batch --input videos.json --concurrency 5 --output results.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs, err := loadInputs(inputPath)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no inputs found in %s", inputPath)
			}

			a, cleanup, err := buildAnalyzer(patternsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if concurrency <= 0 {
				concurrency = analyzer.DefaultMaxConcurrent
			}

			bar := progressbar.NewOptions(len(inputs),
				progressbar.OptionSetDescription("Analyzing videos"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			// Mirrors Analyzer.AnalyzeBatch but reports per-item progress.
			results := make([]model.AnalysisResult, len(inputs))
			var g errgroup.Group
			g.SetLimit(concurrency)
			for i, input := range inputs {
				i, input := i, input
				g.Go(func() error {
					results[i] = a.AnalyzeOne(cmd.Context(), input)
					_ = bar.Add(1)
					return nil
				})
			}
			_ = g.Wait()
			_ = bar.Finish()

			if outputPath != "" {
				if err := writeResults(outputPath, results); err != nil {
					return err
				}
				fmt.Printf("Wrote %d results to %s\n", len(results), outputPath)
			}

			if asJSON {
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode results: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printBatchSummary(inputs, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "input file with a list of videos (YAML or JSON)")
	cmd.Flags().StringVar(&outputPath, "output", "", "write full results to this file as JSON")
	cmd.Flags().StringVar(&patternsPath, "patterns", "", "custom pattern catalog file (YAML)")
	cmd.Flags().IntVar(&concurrency, "concurrency", analyzer.DefaultMaxConcurrent, "maximum items analyzed in parallel")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit all results as JSON to stdout")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// buildAnalyzer wires the pipeline from configuration: the pattern catalog,
// the matcher, and the oracle adapter. When no API key is configured the
// oracle is disabled and classification rests on pattern signals alone.
func buildAnalyzer(patternsPath string) (*analyzer.Analyzer, func(), error) {
	logger := slog.Default()

	cat := catalog.Default()
	if patternsPath != "" {
		var err error
		cat, err = catalog.LoadFile(patternsPath)
		if err != nil {
			return nil, nil, common.NewUserError("failed to load pattern catalog", err)
		}
		logger.Info("loaded pattern catalog", "path", patternsPath, "patterns", cat.Len())
	}

	m := matcher.New(cat, matcher.DefaultConfig(), logger)

	cleanup := func() {}
	var contextAnalyzer analyzer.ContextAnalyzer

	apiKey := viper.GetString("oracle.api_key")
	if apiKey == "" {
		logger.Warn("no oracle API key configured, context analysis disabled",
			"hint", "set SIFTER_ORACLE_API_KEY or oracle.api_key in the config file")
		contextAnalyzer = oracle.DisabledAnalyzer{}
	} else {
		cfg := oracle.Config{
			Provider:          viper.GetString("oracle.provider"),
			APIKey:            apiKey,
			Model:             viper.GetString("oracle.model"),
			Temperature:       viper.GetFloat64("oracle.temperature"),
			MaxTokens:         viper.GetInt("oracle.max_tokens"),
			CacheTTL:          viper.GetDuration("oracle.cache_ttl"),
			RateLimit:         viper.GetInt("oracle.rate_limit"),
			Timeout:           viper.GetDuration("oracle.timeout"),
			MaxRetries:        viper.GetInt("oracle.max_retries"),
			DescriptionLimit:  viper.GetInt("oracle.description_limit"),
			PersistentCaching: viper.GetBool("oracle.persistent_caching"),
		}

		client, err := oracle.NewClient(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create oracle client: %w", err)
		}

		var store oracle.Store
		var oracleCache *storage.OracleCache
		if cfg.PersistentCaching {
			path := viper.GetString("oracle.cache_path")
			if path == "" {
				home, homeErr := os.UserHomeDir()
				if homeErr != nil {
					return nil, nil, fmt.Errorf("failed to get home directory: %w", homeErr)
				}
				path = filepath.Join(home, ".cache", "sifter", "oracle.db")
			}
			oracleCache, err = storage.NewOracleCache(path, viper.GetDuration("oracle.persistent_cache_ttl"), logger)
			if err != nil {
				logger.Warn("persistent oracle cache unavailable, continuing without it", "error", err)
			} else {
				if _, pruneErr := oracleCache.Prune(context.Background()); pruneErr != nil {
					logger.Warn("failed to prune oracle cache", "error", pruneErr)
				}
				store = oracleCache
			}
		}

		adapter := oracle.NewAnalyzer(client, cfg, store, logger)
		contextAnalyzer = adapter
		cleanup = func() {
			adapter.Close()
			if oracleCache != nil {
				_ = oracleCache.Close()
			}
		}
	}

	a := analyzer.New(m, contextAnalyzer, logger)

	if viper.IsSet("classifier.thresholds") {
		t := classifier.DefaultThresholds()
		if v := viper.GetFloat64("classifier.thresholds.high"); v > 0 {
			t.High = v
		}
		if v := viper.GetFloat64("classifier.thresholds.medium"); v > 0 {
			t.Medium = v
		}
		if v := viper.GetFloat64("classifier.thresholds.low"); v > 0 {
			t.Low = v
		}
		if err := a.Classifier().UpdateThresholds(t); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return a, cleanup, nil
}

// loadInputs reads a list of analysis inputs from a YAML or JSON file.
func loadInputs(path string) ([]model.AnalysisInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var inputs []model.AnalysisInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &inputs); err != nil {
			return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &inputs); err != nil {
			return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
		}
	}

	return inputs, nil
}

func writeResults(path string, results []model.AnalysisResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func printResult(result model.AnalysisResult, asJSON, withReport bool) error {
	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	verdict := "ORGANIC"
	if result.IsPPL {
		verdict = "PPL DETECTED"
	}
	style := cli.VerdictStyle(result.Classification.RecommendedAction)

	fmt.Println(cli.TitleStyle.Render("Analysis Result"))
	fmt.Printf("%s  %s\n", style.Render(verdict), cli.SubtleStyle.Render(string(result.Classification.Category)))
	fmt.Printf("Probability: %s  Confidence: %s  Risk: %s\n",
		cli.BoldStyle.Render(fmt.Sprintf("%.1f%%", result.PPLProbability*100)),
		string(result.ConfidenceLevel),
		result.Classification.RiskLevel)
	fmt.Printf("Recommended action: %s\n", style.Render(result.Classification.RecommendedAction))
	fmt.Printf("Evidence: %d explicit, %d implicit pattern matches\n",
		len(result.ExplicitMatches), len(result.ImplicitMatches))
	fmt.Printf("Summary: %s\n", result.ReasoningReport.AnalysisSummary)

	if withReport {
		fmt.Println()
		fmt.Println(reasoning.RenderText(result.ReasoningReport))
	}

	return nil
}

func printBatchSummary(inputs []model.AnalysisInput, results []model.AnalysisResult) {
	fmt.Println(cli.TitleStyle.Render("Batch Results"))
	for i, result := range results {
		verdict := "organic"
		if result.IsPPL {
			verdict = "PPL"
		}
		style := cli.VerdictStyle(result.Classification.RecommendedAction)
		title := inputs[i].VideoTitle
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%3d. %s %5.1f%%  %s\n",
			i+1, style.Render(fmt.Sprintf("%-7s", verdict)), result.PPLProbability*100, title)
	}

	stats := analyzer.ComputeStatistics(results)
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render("Statistics"))
	fmt.Printf("Total analyzed:      %d\n", stats.Total)
	fmt.Printf("PPL detected:        %d (%.1f%%)\n", stats.PPLDetected, stats.DetectionRate*100)
	fmt.Printf("Average probability: %.1f%%\n", stats.AverageProbability*100)
	fmt.Printf("Average duration:    %s\n", stats.AverageDuration)
	for category, count := range stats.CategoryDistribution {
		fmt.Printf("  %-22s %d\n", string(category), count)
	}
}
