package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/canopyhq/canopy-go/rooms"
	"github.com/canopyhq/canopy-go/types"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "watch <room-name>",
		Short:        "Join a room and stream its decoded events to stdout",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			roomName := args[0]
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			done := make(chan error, 1)
			c.AddListener(rooms.EventSocketError, func(arg any) {
				if connErr, ok := arg.(error); ok {
					done <- connErr
				}
			})
			c.AddListener(rooms.EventSocketClose, func(arg any) {
				done <- nil
			})

			if err = c.JoinRoom(cmd.Context(), roomName); err != nil {
				return err
			}
			err = c.ListenRoom(roomName, func(event *types.RoomEvent) {
				body, _ := jsoniter.Marshal(event.Event)
				fmt.Printf("%s  %s  %s  %s\n",
					event.Timestamp.Local().Format("15:04:05.000"),
					event.DeviceID, event.Event.EventType(), body)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "watching room %q, ctrl-c to stop\n", roomName)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-sigCh:
				return c.LeaveRoom(cmd.Context(), roomName)
			case err = <-done:
				return err
			}
		},
	}
}
