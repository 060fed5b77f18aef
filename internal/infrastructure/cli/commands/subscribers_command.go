package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/cli/helpers"
)

// NewSubscribersCommand manages the persisted recipient list.
func NewSubscribersCommand(build ContainerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "List or add alert recipients",
	}
	cmd.AddCommand(newSubscribersListCommand(build), newSubscribersAddCommand(build))
	return cmd
}

func newSubscribersListCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored chat ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, build, func(c *app.Container) error {
				store, _ := c.Store()
				ids, err := store.Load(cmd.Context())
				if err != nil {
					return fmt.Errorf("load subscribers: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, MsgNoSubscribers)
				}
				operator := c.Config.Telegram.OperatorID
				for _, id := range ids {
					if id == operator {
						fmt.Fprintf(out, "%s (operator)\n", id)
						continue
					}
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}
}

func newSubscribersAddCommand(build ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "add <chat-id>",
		Short: "Subscribe a chat id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := helpers.ParseRecipientArg(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", ErrInvalidSubscriberID, err)
			}
			return withStore(cmd, build, func(c *app.Container) error {
				store, _ := c.Store()
				added, err := store.Add(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("add subscriber: %w", err)
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Subscribed %s\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already subscribed\n", id)
				}
				return nil
			})
		},
	}
}

// withStore is withContainer for commands that need the subscriber store open.
func withStore(cmd *cobra.Command, build ContainerFunc, fn func(*app.Container) error) error {
	return withContainer(cmd, build, func(c *app.Container) error {
		defer c.Close()
		if _, err := c.Store(); err != nil {
			return fmt.Errorf("open subscriber store: %w", err)
		}
		return fn(c)
	})
}
