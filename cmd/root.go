package cmd

import (
	"context"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/internal/sampler"
	"github.com/Seann-Moser/latency-sampler/pkg/ctxLogger"
)

const envPrefix = "LATENCY_SAMPLER"

var newLogger = ctxLogger.NewLoggerFromFlags

// rootCmd samples the latency of a single service
var rootCmd = &cobra.Command{
	Use:   "latency-sampler <total_requests> <interval> <service_ip>",
	Short: "Measure HTTP round-trip latency against a service",
	Long: `Sends <total_requests> GET requests to http://<service_ip>:8080/?id=123,
one at a time, pausing <interval> seconds after each, and prints the round-trip
latency of every request. The first failed request ends the run.`,
	Args: func(cmd *cobra.Command, args []string) error {
		_, err := sampler.ParseArgs(args)
		return err
	},
	PersistentPreRunE: setup,
	RunE:              sampler.Runner,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(separateNegativeArgs(rootCmd, args))
	c, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		logCtx := ctx
		if c != nil && c.Context() != nil {
			logCtx = c.Context()
		}
		ctxLogger.Error(logCtx, "command failed", zap.Error(err))
	}
	_ = zap.L().Sync()
	return err
}

var negativeNumber = regexp.MustCompile(`^-\d+$`)

// separateNegativeArgs moves flags ahead of a "--" terminator when a positional
// argument is a negative number, so pflag does not read "-1" as a shorthand.
func separateNegativeArgs(cmd *cobra.Command, args []string) []string {
	found := false
	for _, a := range args {
		if a == "--" {
			return args
		}
		if negativeNumber.MatchString(a) {
			found = true
		}
	}
	if !found {
		return args
	}

	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case negativeNumber.MatchString(a), a == "-", !strings.HasPrefix(a, "-"):
			positional = append(positional, a)
		default:
			flags = append(flags, a)
			if flagTakesValue(cmd, a) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	return append(append(flags, "--"), positional...)
}

func flagTakesValue(cmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	var f *pflag.Flag
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		if strings.HasPrefix(arg, "--") {
			f = fs.Lookup(strings.TrimPrefix(arg, "--"))
		} else if len(arg) == 2 {
			f = fs.ShorthandLookup(arg[1:])
		}
		if f != nil {
			return f.NoOptDefVal == ""
		}
	}
	return false
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().AddFlagSet(ctxLogger.Flags())
	rootCmd.Flags().AddFlagSet(sampler.Flags())
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func setup(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	cmd.SetContext(ctxLogger.ConfigureCtx(logger, cmd.Context()))
	return nil
}
