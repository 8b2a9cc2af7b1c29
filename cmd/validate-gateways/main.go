package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/gateways/alipay"
	"github.com/marcelsud/notification-inbox/gateways/paypal"
	"github.com/marcelsud/notification-inbox/notification"
)

/* validate-gateways - Standalone CLI tool to validate gateways.yaml
 * Usage: go run cmd/validate-gateways/main.go [gateways.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	gatewaysFile := "gateways.yaml"
	if len(os.Args) > 1 {
		gatewaysFile = os.Args[1]
	}

	fmt.Printf("Validating gateways file: %s\n", gatewaysFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := gateways.NewLoader()
	if err := loader.Load(gatewaysFile); err != nil {
		fail(err)
	}

	// every configured gateway must have an implementation
	registry, err := gateways.NewRegistry(notification.Production, paypal.Definition(), alipay.Definition())
	if err != nil {
		fail(err)
	}
	if err := registry.ConfigureAll(loader); err != nil {
		fail(err)
	}

	configs := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d gateway(s):\n", len(configs))

	for i, cfg := range configs {
		fmt.Printf("\n%d. Gateway: %s\n", i+1, cfg.Name)
		if cfg.AllowList().Empty() {
			fmt.Printf("   Production IPs: any sender\n")
		} else {
			fmt.Printf("   Production IPs: %s\n", strings.Join(cfg.AllowList().Strings(), ", "))
		}
		for k, v := range cfg.Options {
			fmt.Printf("   Option %s: %s\n", k, v)
		}
	}

	for _, name := range registry.Names() {
		if _, err := loader.Get(name); err != nil {
			fmt.Printf("\n! %s is not configured and will accept notifications from any sender\n", name)
		}
	}

	fmt.Printf("\n✓ All gateways are valid!\n")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
