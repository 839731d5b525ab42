package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Seann-Moser/latency-sampler/pkg/ctxLogger"
	"github.com/Seann-Moser/latency-sampler/server"
)

// serveCmd runs a target for the sampler to measure against
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a target service that records the one-way delay of sampled requests",
	Long: `Listens on --port and answers GET / with the one-way delay computed from the
X-Timestamp header. With --upstream the request is forwarded to that application
after being measured. The latest delay per caller is served on /measurements.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().AddFlagSet(server.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := server.NewServerFromFlags(ctxLogger.GetLogger(ctx))
	if _, err := s.AddTargetEndpoints(); err != nil {
		return err
	}
	return s.StartServer(ctx)
}
