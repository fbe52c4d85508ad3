package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-registry/internal/handler"
	"wedding-registry/internal/storage"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "console")
	assert.NotNil(t, cmd.Flags().Lookup("addr"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("store"))
}

func TestConsoleCmd(t *testing.T) {
	for _, store := range []string{"memory", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetIn(strings.NewReader("1\nBrady\n2\nn\n2\n4\n"))
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"console", "--store", store, "--log-level", "error"})

			require.NoError(t, cmd.Execute())
			assert.Contains(t, out.String(), "✅ Brady added")
			assert.Contains(t, out.String(), "Brady: Guest of James, +1?")
			assert.Contains(t, out.String(), "1-2 guest(s) of James (0 family)")
		})
	}
}

func TestConsoleCmd_Server(t *testing.T) {
	reg := storage.NewStorage()
	srv := httptest.NewServer(handler.NewRouter(handler.NewGuestHandler(reg, nil), zerolog.Nop(), nil))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("1\nBrady\n2\nn\n2\n4\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"console", "--server", srv.URL, "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "✅ Brady added")
	assert.Contains(t, out.String(), "1-2 guest(s) of James (0 family)")

	g, err := reg.Get(context.Background(), "Brady")
	require.NoError(t, err)
	assert.Equal(t, "James", string(g.Side))
}

func TestConsoleCmd_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(handler.NewRouter(handler.NewGuestHandler(storage.NewStorage(), nil), zerolog.Nop(), nil))
	srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("2\n4\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"console", "--server", srv.URL, "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "failed to connect to server")
}

func TestConsoleCmd_UnknownStore(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"console", "--store", "postgres"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown registry kind")
}
