package cli

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vnbgeo/indexbuild"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/spf13/cobra"
)

func newBuildIndexCmd() *cobra.Command {
	var (
		prefix      string
		out         string
		concurrency int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Build the VNB index from the full geometry files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := fromCommand(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			store, err := c.Config.OpenStore(ctx, c.Logger.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if store.Writable == nil {
				return fmt.Errorf("data backend %q is read-only", c.Config.Data.Backend)
			}

			cd, ok := codecFor(c)
			if !ok {
				return fmt.Errorf("unknown codec %q", c.Config.Engine.Codec)
			}
			opts := []indexbuild.Option{
				indexbuild.WithConcurrency(concurrency),
				indexbuild.WithLogger(c.Logger.Logger),
				indexbuild.WithCodec(cd),
			}

			doc, report, err := indexbuild.Build(ctx, store.Writable, prefix, opts...)
			if err != nil {
				return err
			}
			if report.Indexed == 0 {
				return errors.New("no geometry files could be indexed")
			}
			if !dryRun {
				if err := indexbuild.Write(ctx, store.Writable, out, doc, opts...); err != nil {
					return err
				}
			}

			if c.Output == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "indexed %d of %d files", report.Indexed, report.Files)
			if !dryRun {
				fmt.Fprintf(w, " into %s", out)
			}
			fmt.Fprintln(w)
			for name, reason := range report.Skipped {
				fmt.Fprintf(w, "skipped %s: %s\n", name, reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "vnb/full/", "prefix of the geometry files")
	cmd.Flags().StringVar(&out, "out", spatial.DefaultResource, "name of the index file to write")
	cmd.Flags().IntVar(&concurrency, "concurrency", indexbuild.DefaultConcurrency, "parallel file reads")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build and report without writing")
	return cmd
}
