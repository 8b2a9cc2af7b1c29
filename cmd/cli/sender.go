package main

import (
	"fmt"

	"github.com/marcelsud/notification-inbox/notification"
	"github.com/spf13/cobra"
)

func newCheckSenderCmd(flags *globalFlags) *cobra.Command {
	var ignoreTestMode bool
	cmd := &cobra.Command{
		Use:   "check-sender <gateway> <ip>",
		Short: "Check an address against a gateway allow-list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, ip := args[0], args[1]

			registry, err := flags.registry(false)
			if err != nil {
				return err
			}
			n, err := registry.Parse(gateway, nil)
			if err != nil {
				return err
			}

			var opts []notification.SenderOption
			if ignoreTestMode {
				opts = append(opts, notification.IgnoreTestMode())
			}
			if !n.ValidSender(ip, opts...) {
				return fmt.Errorf("%s is not allowed to send %s notifications", ip, gateway)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is allowed to send %s notifications\n", ip, gateway)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ignoreTestMode, "ignore-test-mode", false, "enforce the allow-list in test mode")
	return cmd
}
