package sampler

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Seann-Moser/latency-sampler/pkg/clientpkg"
)

const FlagPrefix = "target"

func Flags() *pflag.FlagSet {
	return clientpkg.Flags(FlagPrefix)
}

// Runner is the RunE of the sampling command. Usage is only printed for
// argument errors, not for failed requests.
func Runner(cmd *cobra.Command, args []string) error {
	parsed, err := ParseArgs(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	client, err := clientpkg.NewWithFlags(FlagPrefix, parsed.ServiceIP)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return New(parsed, client, cmd.OutOrStdout()).Run(ctx)
}
