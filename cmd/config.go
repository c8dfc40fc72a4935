package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		c := effectiveConfig()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "comparison_limit: %d\n", c.ComparisonLimit)
		fmt.Fprintf(w, "max_charts: %d\n", c.MaxCharts)
		fmt.Fprintf(w, "numeric_majority: %.3f\n", c.NumericMajority)
		fmt.Fprintf(w, "max_categories: %d\n", c.MaxCategories)
		fmt.Fprintf(w, "count_max_ceiling: %g\n", c.CountMaxCeiling)
		fmt.Fprintf(w, "count_max_spread: %g\n", c.CountMaxSpread)
		fmt.Fprintf(w, "avg_spread_ratio: %.3f\n", c.AvgSpreadRatio)
		fmt.Fprintf(w, "identifier_substrings: %s\n", strings.Join(c.IdentifierSubstrings, ","))
		if c.MaxCandidateColumns > 0 {
			fmt.Fprintf(w, "max_candidate_columns: %d\n", c.MaxCandidateColumns)
		}
		fmt.Fprintf(w, "default_format: %s\n", c.DefaultFormat)
		fmt.Fprintf(w, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Fprintf(w, "retry_max_attempts: %d\n", c.RetryMaxAttempts)
		fmt.Fprintf(w, "retry_base_delay_ms: %d\n", c.RetryBaseDelayMs)
		fmt.Fprintf(w, "retry_max_delay_ms: %d\n", c.RetryMaxDelayMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			switch {
			case errors.Is(err, os.ErrNotExist):
				// first write to a new --config path
				c = cfgpkg.Default()
			case err != nil:
				return err
			}
			cfg = c
		}
		if err := setKey(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		okf(cmd.ErrOrStderr(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setKey(c *cfgpkg.Global, key, val string) error {
	ints := map[string]*int{
		"comparison_limit":      &c.ComparisonLimit,
		"max_charts":            &c.MaxCharts,
		"max_categories":        &c.MaxCategories,
		"max_candidate_columns": &c.MaxCandidateColumns,
		"http_timeout_sec":      &c.HTTPTimeoutSec,
		"retry_max_attempts":    &c.RetryMaxAttempts,
		"retry_base_delay_ms":   &c.RetryBaseDelayMs,
		"retry_max_delay_ms":    &c.RetryMaxDelayMs,
	}
	floats := map[string]*float64{
		"numeric_majority":  &c.NumericMajority,
		"count_max_ceiling": &c.CountMaxCeiling,
		"count_max_spread":  &c.CountMaxSpread,
		"avg_spread_ratio":  &c.AvgSpreadRatio,
	}
	if p, ok := ints[key]; ok {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*p = i
		return nil
	}
	if p, ok := floats[key]; ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		*p = f
		return nil
	}
	switch key {
	case "identifier_substrings":
		var subs []string
		for _, s := range strings.Split(val, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				subs = append(subs, s)
			}
		}
		if len(subs) == 0 {
			return fmt.Errorf("identifier_substrings needs at least one entry")
		}
		c.IdentifierSubstrings = subs
	case "default_format":
		switch strings.ToLower(val) {
		case "markdown", "md":
			c.DefaultFormat = "markdown"
		case "json":
			c.DefaultFormat = "json"
		default:
			return fmt.Errorf("invalid default_format: %s (use markdown or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
