package sampler

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, port int) (*cobra.Command, *bytes.Buffer) {
	t.Cleanup(viper.Reset)
	cmd := &cobra.Command{Use: "latency-sampler", RunE: Runner}
	cmd.Flags().AddFlagSet(Flags())
	require.NoError(t, cmd.Flags().Set(FlagPrefix+"-port", strconv.Itoa(port)))
	require.NoError(t, viper.BindPFlags(cmd.Flags()))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestRunner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	port := srv.Listener.Addr().(*net.TCPAddr).Port

	cmd, out := newTestCommand(t, port)
	require.NoError(t, Runner(cmd, []string{"2", "0", "127.0.0.1"}))

	assert.Len(t, outputLines(out), 2)
	assert.True(t, cmd.SilenceUsage)
}

func TestRunner_ArgumentErrorKeepsUsage(t *testing.T) {
	cmd, out := newTestCommand(t, 1)
	err := Runner(cmd, []string{"x", "0", "127.0.0.1"})

	assert.ErrorContains(t, err, "total_requests")
	assert.False(t, cmd.SilenceUsage)
	assert.Empty(t, out.String())
}

func TestRunner_ZeroRequests(t *testing.T) {
	cmd, out := newTestCommand(t, 1)
	require.NoError(t, Runner(cmd, []string{"0", "1", "203.0.113.1"}))
	assert.Empty(t, out.String())
}
