package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/gateways/alipay"
	"github.com/marcelsud/notification-inbox/gateways/paypal"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/spf13/cobra"
)

/* cli - offline tools for gateway notifications
 * parse:        decode a captured payload, optionally as a given gateway
 * check-sender: tell whether an address may post for a gateway
 */

type globalFlags struct {
	gatewaysFile string
	mode         string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:          "notification-cli",
		Short:        "Inspect payment gateway notifications",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.gatewaysFile, "gateways", "gateways.yaml", "gateways configuration file")
	root.PersistentFlags().StringVar(&flags.mode, "mode", "production", "integration mode (test or production)")

	root.AddCommand(newParseCmd(flags), newCheckSenderCmd(flags))
	return root
}

// registry builds the gateway registry. A missing gateways file is fine when
// allowMissing is set: gateways then run without an allow-list.
func (f *globalFlags) registry(allowMissing bool) (*gateways.Registry, error) {
	mode, err := notification.ParseMode(f.mode)
	if err != nil {
		return nil, err
	}
	registry, err := gateways.NewRegistry(mode, paypal.Definition(), alipay.Definition())
	if err != nil {
		return nil, err
	}

	loader := gateways.NewLoader()
	if err := loader.Load(f.gatewaysFile); err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return registry, nil
		}
		return nil, err
	}
	if err := registry.ConfigureAll(loader); err != nil {
		return nil, fmt.Errorf("configuring gateways: %w", err)
	}
	return registry, nil
}
