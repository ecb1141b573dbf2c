package cli

import (
	"fmt"

	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/hupe1980/vnbgeo/fuzzy"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/hupe1980/vnbgeo/style"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search VNB names and ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := fromCommand(cmd)
			if err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			b, closeFn, err := openBrowser(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := b.IndexErr(); err != nil {
				return err
			}

			results := b.Search(cmd.Context(), args[0], limit)
			if c.Output == "json" {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			rows := make([][]any, len(results))
			for i, r := range results {
				rows[i] = []any{r.Record.ID, r.Record.VNBID, r.Record.Name, fmt.Sprintf("%.2f", r.Score), style.FormatArea(r.Record.Area)}
			}
			return table(cmd.OutOrStdout(), []any{"ID", "VNB-ID", "NAME", "SCORE", "FLÄCHE"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", fuzzy.MaxResults, "maximum number of results")
	return cmd
}

func newAssetsCmd() *cobra.Command {
	var (
		rulesJSON string
		where     []string
	)

	cmd := &cobra.Command{
		Use:   "assets <solar|bess>",
		Short: "List solar or battery storage assets passing a rule set",
		Long: "List assets of a category. Rules are given as a JSON array with --rules\n" +
			"or one per --where flag as \"field operator value\", e.g.\n" +
			"  --where \"grossPower gte 1000\" --where \"bundesland equals Bayern\"",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(asset.Solar), string(asset.BESS)},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := fromCommand(cmd)
			if err != nil {
				return err
			}
			cat := asset.Category(args[0])
			if !cat.Valid() {
				return fmt.Errorf("%w: %q", asset.ErrInvalidCategory, args[0])
			}

			rules, err := parseRules(c, rulesJSON, where)
			if err != nil {
				return err
			}

			b, closeFn, err := openBrowser(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := b.AssetsMatching(cmd.Context(), cat, rules)
			if err != nil {
				return err
			}
			if c.Output == "json" {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			rows := make([][]any, len(records))
			for i, r := range records {
				rows[i] = []any{r.ID, r.Name, r.Status, style.FormatPower(r.GrossPower), r.Bundesland, r.City}
			}
			return table(cmd.OutOrStdout(), []any{"ID", "NAME", "STATUS", "LEISTUNG", "BUNDESLAND", "STADT"}, rows)
		},
	}
	cmd.Flags().StringVar(&rulesJSON, "rules", "", "rule set as a JSON array")
	cmd.Flags().StringArrayVar(&where, "where", nil, `rule as "field operator value"; repeatable`)
	return cmd
}

// parseRules combines the --rules and --where flags.
func parseRules(c *Context, rulesJSON string, where []string) ([]filter.Rule, error) {
	var rules []filter.Rule
	if rulesJSON != "" {
		cd, ok := codecFor(c)
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", c.Config.Engine.Codec)
		}
		if err := cd.Unmarshal([]byte(rulesJSON), &rules); err != nil {
			return nil, fmt.Errorf("--rules: %w", err)
		}
		for _, r := range rules {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("--rules: %w", err)
			}
		}
	}
	for _, w := range where {
		r, err := ParseWhere(w)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the VNB index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := fromCommand(cmd)
			if err != nil {
				return err
			}
			b, closeFn, err := openBrowser(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := b.IndexErr(); err != nil {
				return err
			}

			s := b.Stats()
			if c.Output == "json" {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			rows := [][]any{
				{"Gesamt", s.TotalCount},
				{"Gesamtfläche", style.FormatArea(s.TotalArea)},
				{string(spatial.TagMittelspannung) + " + " + string(spatial.TagNiederspannung), s.Both},
				{"Nur " + string(spatial.TagMittelspannung), s.Mittelspannung},
				{"Nur " + string(spatial.TagNiederspannung), s.Niederspannung},
				{"Ohne Spannungsebene", s.Untagged},
			}
			for _, bucket := range s.AreaBuckets {
				rows = append(rows, []any{"Fläche " + bucket.Label, bucket.Count})
			}
			return table(cmd.OutOrStdout(), []any{"KENNZAHL", "WERT"}, rows)
		},
	}
}
