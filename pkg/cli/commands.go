// Package cli implements the answerguard command line. The CLI is a thin
// batch wrapper over the library: it streams JSONL records through the
// intent and guard engines and emits JSONL (or a table when interactive).
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/GF0201/CWKGQA/pkg/config"
	"github.com/GF0201/CWKGQA/pkg/guard"
	"github.com/GF0201/CWKGQA/pkg/intent"
	"github.com/GF0201/CWKGQA/pkg/observability/logging"
	"github.com/GF0201/CWKGQA/pkg/support"
)

// NewRootCommand builds the answerguard command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "answerguard",
		Short:        "Answer-grounding guardrail and intent classifier for KGQA pipelines",
		SilenceUsage: true,
	}
	root.AddCommand(newPredictCommand())
	root.AddCommand(newEnforceCommand())
	root.AddCommand(newFingerprintCommand())
	return root
}

// questionRecord is one line of predict input.
type questionRecord struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// responseRecord is one line of enforce input.
type responseRecord struct {
	ID               string           `json:"id"`
	RawPrediction    string           `json:"raw_prediction"`
	RetrievedTriples []support.Triple `json:"retrieved_triples"`
}

func newPredictCommand() *cobra.Command {
	var configPath, inputPath string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify question intents from a JSONL file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			engine, err := intent.NewEngine(cfg, nil)
			if err != nil {
				return fmt.Errorf("build intent engine: %w", err)
			}

			var rows [][]string
			out := json.NewEncoder(os.Stdout)
			err = forEachLine(inputPath, func(line []byte) error {
				var rec questionRecord
				if err := json.Unmarshal(line, &rec); err != nil {
					return fmt.Errorf("record %q: %w", string(line), err)
				}
				pred := engine.Predict(rec.Question)

				if IsTerminal() {
					label, score := TopIntent(pred)
					clar := ""
					if pred.ClarificationQuestion != nil {
						clar = *pred.ClarificationQuestion
					}
					rows = append(rows, []string{
						rec.ID, label,
						strconv.FormatFloat(score, 'f', 3, 64),
						strconv.FormatBool(pred.IsMultiIntent),
						strconv.FormatBool(pred.IsAmbiguous),
						clar,
					})
					return nil
				}
				return out.Encode(struct {
					ID string `json:"id"`
					intent.Prediction
				}{rec.ID, pred})
			})
			if err != nil {
				return err
			}

			if IsTerminal() {
				RenderIntentTable(rows)
				Info(fmt.Sprintf("config fingerprint: %s", engine.Fingerprint()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/answerguard.yaml", "Path to the engine configuration")
	cmd.Flags().StringVar(&inputPath, "input", "-", "JSONL questions file ('-' for stdin)")
	return cmd
}

func newEnforceCommand() *cobra.Command {
	var configPath, inputPath, policyName, metricsAddr string

	cmd := &cobra.Command{
		Use:   "enforce",
		Short: "Check answer grounding for a JSONL file of model responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			engine := guard.NewEngine(cfg)
			policy := guard.Policy(policyName)

			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}

			var rows [][]string
			out := json.NewEncoder(os.Stdout)
			err = forEachLine(inputPath, func(line []byte) error {
				var rec responseRecord
				if err := json.Unmarshal(line, &rec); err != nil {
					return fmt.Errorf("record %q: %w", string(line), err)
				}
				// Batch mode has no generation backend, so policy R
				// degrades to forcing UNKNOWN after the failed retry.
				eval := engine.Evaluate(rec.RawPrediction, rec.RetrievedTriples, policy, nil)

				if IsTerminal() {
					coverage := "null"
					if eval.Support.Coverage != nil {
						coverage = strconv.FormatFloat(*eval.Support.Coverage, 'f', 2, 64)
					}
					rows = append(rows, []string{
						rec.ID,
						string(eval.Decision.Action),
						eval.Decision.FinalAnswer,
						coverage,
						strconv.FormatBool(eval.Decision.RetryAttempted),
					})
					return nil
				}
				return out.Encode(struct {
					ID string `json:"id"`
					guard.Evaluation
				}{rec.ID, eval})
			})
			if err != nil {
				return err
			}

			if IsTerminal() {
				RenderEnforcementTable(rows)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/answerguard.yaml", "Path to the engine configuration")
	cmd.Flags().StringVar(&inputPath, "input", "-", "JSONL responses file ('-' for stdin)")
	cmd.Flags().StringVar(&policyName, "policy", string(guard.PolicyForceUnknown), "Enforcement policy name")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Optional address to serve Prometheus metrics on (e.g. :9190)")
	return cmd
}

func newFingerprintCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the SHA-256 fingerprint of the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			engine, err := intent.NewEngine(cfg, nil)
			if err != nil {
				return fmt.Errorf("build intent engine: %w", err)
			}
			fmt.Println(engine.Fingerprint())
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/answerguard.yaml", "Path to the engine configuration")
	return cmd
}

func loadConfig(path string) (*config.EngineConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}

// forEachLine streams non-empty lines of a JSONL file (or stdin) to fn.
func forEachLine(path string, fn func(line []byte) error) error {
	var in *os.File
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logging.Infof("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Errorf("Metrics server stopped: %v", err)
	}
}
