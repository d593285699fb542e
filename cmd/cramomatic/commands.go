package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cramomatic"
	"cramomatic/internal/api"
	"cramomatic/internal/server"
)

func (a *app) computeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compute ITEM1 ITEM2 ITEM3 ITEM4",
		Short: "Resolve a complete recipe",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.svc.Recipe(api.RecipeRequest{Items: args})
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				fmt.Fprintln(w, resp.Text)
			})
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check OUTPUT [ITEM...]",
		Short: "Check whether a partial recipe can still produce OUTPUT",
		Args:  cobra.RangeArgs(1, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.svc.Check(api.CheckRequest{Output: args[0], Items: args[1:]})
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				verdict := "possible"
				if !resp.Possible {
					verdict = "impossible"
				}
				fmt.Fprintf(w, "%s -> %s: %s\n", cramomatic.FormatPartial(cramomatic.PartialRecipe(resp.Items)), resp.Output, verdict)
			})
		},
	}
}

func (a *app) optionsCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "options OUTPUT [ITEM...]",
		Short: "List the ingredients for one slot that keep OUTPUT reachable",
		Args:  cobra.RangeArgs(1, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.svc.Options(api.OptionsRequest{Output: args[0], Items: args[1:], Slot: slot})
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				for _, name := range resp.Options {
					fmt.Fprintln(w, name)
				}
			})
		},
	}
	cmd.Flags().IntVar(&slot, "slot", 0, "slot to fill, 0-3")
	return cmd
}

func (a *app) outputsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List every item a recipe can produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := a.svc.Outputs()
			return a.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				for _, name := range resp.Outputs {
					fmt.Fprintln(w, name)
				}
			})
		},
	}
}

func (a *app) itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List every ingredient with its type and score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := a.svc.Items()
			return a.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				for _, it := range resp.Items {
					fmt.Fprintf(w, "%-24s %-9s %3d\n", it.Name, it.Type, it.Score)
				}
			})
		},
	}
}

func (a *app) tableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table [TYPE...]",
		Short: "Show the output table of each type, or of the types given",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := a.svc.Tables()
			var types []cramomatic.TypeTag
			for _, name := range args {
				typ := cramomatic.ParseType(name)
				if typ == cramomatic.TypeNone {
					return fmt.Errorf("%w: %q", cramomatic.ErrUnknownType, name)
				}
				types = append(types, typ)
			}
			if len(types) == 0 {
				for typ := cramomatic.TypeNormal; typ <= cramomatic.TypeFairy; typ++ {
					types = append(types, typ)
				}
			}

			out := make(map[string][]cramomatic.Bucket, len(types))
			for _, typ := range types {
				buckets, err := tables.OutputTable(typ)
				if err != nil {
					return err
				}
				out[typ.String()] = buckets
			}
			return a.print(cmd.OutOrStdout(), out, func(w io.Writer) {
				for _, typ := range types {
					fmt.Fprint(w, cramomatic.FormatTable(typ, out[typ.String()]))
				}
			})
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			srv := server.New(a.svc, a.logger, server.Options{
				Addr:            a.cfg.Server.Addr,
				ShutdownTimeout: a.cfg.GetShutdownTimeout(),
				AllowedOrigins:  a.cfg.Server.AllowedOrigins,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
