package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canopyhq/canopy-go/canopy"
)

func newDevicesCommand() *cobra.Command {
	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage the realm's devices",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:          "list",
		Short:        "List devices, following pagination",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE ID\tCONNECTED\tLAST SEEN IP\tLAST CONNECTION")
			fromToken := ""
			for {
				devices, next, err := c.ListDevices(cmd.Context(),
					canopy.ListDevicesOptions{Limit: limit, FromToken: fromToken})
				if err != nil {
					return err
				}
				for _, dev := range devices {
					lastConn := ""
					if !dev.LastConnection.IsZero() {
						lastConn = dev.LastConnection.Local().Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "%s\t%v\t%s\t%s\n",
						dev.ID, dev.Connected, dev.LastSeenIP, lastConn)
				}
				if next == "" {
					break
				}
				fromToken = next
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "page size (0 uses the backend default)")

	showCmd := &cobra.Command{
		Use:          "show <device-id>",
		Short:        "Show one device's status record",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			dev, err := c.GetDevice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("id:         %s\n", dev.ID)
			fmt.Printf("connected:  %v\n", dev.Connected)
			for tag, alias := range dev.Aliases {
				fmt.Printf("alias:      %s = %s\n", tag, alias)
			}
			for name, v := range dev.Introspection {
				fmt.Printf("interface:  %s v%d.%d\n", name, v.Major, v.Minor)
			}
			for _, group := range dev.Groups {
				fmt.Printf("group:      %s\n", group)
			}
			return nil
		},
	}

	registerCmd := &cobra.Command{
		Use:          "register <device-id>",
		Short:        "Register a device and print its credentials secret",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			secret, err := c.RegisterDevice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(secret)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:          "delete <device-id>",
		Short:        "Remove a device and all its data",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DeleteDevice(cmd.Context(), args[0])
		},
	}

	devicesCmd.AddCommand(listCmd, showCmd, registerCmd, deleteCmd)
	return devicesCmd
}
