package main

import (
	"fmt"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/canopyhq/canopy-go/types"
)

func newInterfacesCommand() *cobra.Command {
	interfacesCmd := &cobra.Command{
		Use:   "interfaces",
		Short: "Manage the realm's interface definitions",
	}

	listCmd := &cobra.Command{
		Use:          "list",
		Short:        "List interface names with their installed majors",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			names, err := c.ListInterfaceNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				majors, err := c.ListInterfaceMajors(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Printf("%s %v\n", name, majors)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:          "show <interface-name> <major>",
		Short:        "Print an interface definition as JSON",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("'%s' is not a major version number", args[1])
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			iface, err := c.GetInterface(cmd.Context(), args[0], major)
			if err != nil {
				return err
			}
			out, err := jsoniter.MarshalIndent(iface.ToDTO(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	installCmd := &cobra.Command{
		Use:          "install <definition.json>",
		Short:        "Install an interface from a JSON definition file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			dto := &types.InterfaceDTO{}
			if err = jsoniter.Unmarshal(raw, dto); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			iface, err := types.InterfaceFromDTO(dto)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.InstallInterface(cmd.Context(), iface)
		},
	}

	interfacesCmd.AddCommand(listCmd, showCmd, installCmd)
	return interfacesCmd
}
