package daemon

import (
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/openshift-assist/mcpbridge/internal/errors"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "bad request",
			err:        fmt.Errorf("%w: malformed input", errors.ErrBadRequest),
			wantStatus: 400,
		},
		{
			name:       "invalid config",
			err:        fmt.Errorf("%w: bad entry", errors.ErrConfigInvalid),
			wantStatus: 400,
		},
		{
			name:       "server not found",
			err:        fmt.Errorf("%w: nope", errors.ErrServerNotFound),
			wantStatus: 404,
		},
		{
			name:       "tool not found",
			err:        fmt.Errorf("%w: nope/tool", errors.ErrToolNotFound),
			wantStatus: 404,
		},
		{
			name:       "health not tracked",
			err:        fmt.Errorf("%w: nope", errors.ErrHealthNotTracked),
			wantStatus: 404,
		},
		{
			name:       "connection failed",
			err:        fmt.Errorf("%w: openshift", errors.ErrConnectionFailed),
			wantStatus: 502,
		},
		{
			name:       "protocol error",
			err:        fmt.Errorf("%w: nil result", errors.ErrProtocol),
			wantStatus: 502,
		},
		{
			name:       "tool list failed",
			err:        fmt.Errorf("%w: openshift", errors.ErrToolListFailed),
			wantStatus: 502,
		},
		{
			name:       "tool call failed",
			err:        fmt.Errorf("%w: openshift/get_pods", errors.ErrToolCallFailed),
			wantStatus: 502,
		},
		{
			name:       "unexpected error",
			err:        fmt.Errorf("something else entirely"),
			wantStatus: 500,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			statusErr := mapError(hclog.NewNullLogger(), tc.err)
			require.Equal(t, tc.wantStatus, statusErr.GetStatus())
		})
	}
}

func TestValidateAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "host and port", addr: "localhost:8090"},
		{name: "all interfaces", addr: "0.0.0.0:8090"},
		{name: "empty host", addr: ":8090"},
		{name: "missing port", addr: "localhost", wantErr: true},
		{name: "empty", addr: "", wantErr: true},
		{name: "bad port", addr: "localhost:not-a-port", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validateAddr(tc.addr)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
