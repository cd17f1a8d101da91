package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "health",
		Short:        "Probe the health of all four API planes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			probes := []struct {
				name  string
				probe func(ctx context.Context) error
			}{
				{"app-engine", c.AppEngineHealth},
				{"realm-management", c.RealmManagementHealth},
				{"pairing", c.PairingHealth},
				{"flow", c.FlowHealth},
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			failed := false
			for _, p := range probes {
				if err := p.probe(cmd.Context()); err != nil {
					failed = true
					fmt.Fprintf(w, "%s\tDOWN\t%v\n", p.name, err)
				} else {
					fmt.Fprintf(w, "%s\tUP\t\n", p.name)
				}
			}
			_ = w.Flush()
			if failed {
				return fmt.Errorf("one or more planes are unhealthy")
			}
			return nil
		},
	}
}
