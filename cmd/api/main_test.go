package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/repositories/postgres"
	"go.uber.org/zap/zaptest"
)

func TestCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
	}{
		{name: "serve is the default", args: nil, command: "serve"},
		{name: "explicit serve", args: []string{"serve"}, command: "serve"},
		{name: "migrate up", args: []string{"migrate", "up"}, command: "migrate up"},
		{name: "migrate down", args: []string{"migrate", "down"}, command: "migrate down"},
		{name: "migrate status", args: []string{"migrate", "status"}, command: "migrate status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli CLI
			parser, err := newParser(&cli)
			require.NoError(t, err)

			ctx, err := parser.Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.command, ctx.Command())
		})
	}

	t.Run("unknown command", func(t *testing.T) {
		var cli CLI
		parser, err := newParser(&cli)
		require.NoError(t, err)
		_, err = parser.Parse([]string{"migrate", "sideways"})
		assert.Error(t, err)
	})
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	err := printStatus(&buf, []postgres.MigrationState{
		{Version: 1, File: "00001_create_catalogue.sql", Applied: true},
		{Version: 2, File: "00002_create_audit_logs.sql", Applied: false},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "VERSION")
	assert.Regexp(t, `1\s+applied\s+00001_create_catalogue.sql`, out)
	assert.Regexp(t, `2\s+pending\s+00002_create_audit_logs.sql`, out)
}

func TestServe(t *testing.T) {
	t.Run("cancellation shuts the server down", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- serve(ctx, srv, listener, time.Second, zaptest.NewLogger(t))
		}()

		resp, err := http.Get("http://" + listener.Addr().String() + "/")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancellation")
		}
	})

	t.Run("listener failure is reported", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		listener.Close()

		err = serve(context.Background(), &http.Server{}, listener, time.Second, zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "server error")
	})
}
