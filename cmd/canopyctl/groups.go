package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canopyhq/canopy-go/canopy"
)

func newGroupsCommand() *cobra.Command {
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage the realm's device groups",
	}

	listCmd := &cobra.Command{
		Use:          "list",
		Short:        "List group names",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			names, err := c.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:          "create <group-name> <device-id> [device-id...]",
		Short:        "Create a group with its initial devices",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.CreateGroup(cmd.Context(), args[0], args[1:])
		},
	}

	devicesCmd := &cobra.Command{
		Use:          "devices <group-name>",
		Short:        "List the device IDs of a group, following pagination",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			fromToken := ""
			for {
				ids, next, err := c.ListGroupDevices(cmd.Context(), args[0],
					canopy.ListDevicesOptions{FromToken: fromToken})
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				if next == "" {
					return nil
				}
				fromToken = next
			}
		},
	}

	addCmd := &cobra.Command{
		Use:          "add <group-name> <device-id>",
		Short:        "Add a device to a group",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.AddDeviceToGroup(cmd.Context(), args[0], args[1])
		},
	}

	removeCmd := &cobra.Command{
		Use:          "remove <group-name> <device-id>",
		Short:        "Remove a device from a group",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.RemoveDeviceFromGroup(cmd.Context(), args[0], args[1])
		},
	}

	groupsCmd.AddCommand(listCmd, createCmd, devicesCmd, addCmd, removeCmd)
	return groupsCmd
}
