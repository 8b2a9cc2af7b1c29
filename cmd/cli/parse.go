package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/marcelsud/notification-inbox/notification"
	"github.com/spf13/cobra"
)

func newParseCmd(flags *globalFlags) *cobra.Command {
	var gateway string
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Decode a form-encoded notification body (reads stdin without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer out.Flush()

			if gateway == "" {
				fields, _ := notification.Parse(raw)
				printFields(out, fields)
				return nil
			}

			registry, err := flags.registry(true)
			if err != nil {
				return err
			}
			n, err := registry.Parse(gateway, raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "gateway\t%s\n", gateway)
			fmt.Fprintf(out, "transaction\t%s\n", n.TransactionID())
			fmt.Fprintf(out, "status\t%s\n", n.Status())
			fmt.Fprintf(out, "gross\t%v\n", n.Gross())
			fmt.Fprintf(out, "cents\t%d\n", notification.GrossCents(n))
			fmt.Fprintf(out, "amount\t%s\n", notification.Amount(n))
			fmt.Fprintln(out)
			printFields(out, n.Fields())
			return nil
		},
	}
	cmd.Flags().StringVarP(&gateway, "gateway", "g", "", "interpret the payload as this gateway")
	return cmd
}

func readPayload(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return raw, nil
}

func printFields(w io.Writer, fields notification.Fields) {
	for _, key := range fields.Keys() {
		fmt.Fprintf(w, "%s\t%q\n", key, fields.Get(key))
	}
}

