package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-registry/internal/handler"
	"wedding-registry/internal/metrics"
	"wedding-registry/internal/models"
	"wedding-registry/internal/storage"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := handler.NewGuestHandler(storage.NewStorage(), metrics.New(reg))
	srv := httptest.NewServer(handler.NewRouter(h, zerolog.Nop(), reg))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t).URL + "/")

	brady, err := c.Save(ctx, "Brady", models.SideJames, false)
	require.NoError(t, err)
	assert.True(t, brady.Equal(models.Guest{Name: "Brady", Side: models.SideJames}))

	_, err = c.Save(ctx, "Brady", models.SideJames, false)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "guest: 'Brady' is already entered into the registry", err.Error())

	_, err = c.Save(ctx, "Katie", models.SideMolly, true)
	require.NoError(t, err)

	katie := models.Guest{
		Name:        "Katie",
		Side:        models.SideMolly,
		Family:      true,
		Diet:        models.String("vegetarian"),
		PlusOne:     models.Bool(true),
		PlusOneName: models.String("Sam"),
	}
	updated, err := c.Update(ctx, katie)
	require.NoError(t, err)
	assert.True(t, updated.Equal(katie))

	loaded, err := c.Load(ctx, "Katie")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(katie))

	_, err = c.Load(ctx, "Nobody Here")
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "no guest with name 'Nobody Here'", reqErr.Message)

	guests, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, "Brady", guests[0].Name)
	assert.Equal(t, "Katie", guests[1].Name)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ComputeStatistics(guests), stats)
	assert.Equal(t, models.SideStatistics{Confirmed: 2, Family: 1}, stats.Molly)
}

func TestClient_UpdateChecksInvariantLocally(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Update(context.Background(), models.Guest{Name: "x", Side: models.SideMolly, PlusOne: models.Bool(true)})
	assert.ErrorIs(t, err, models.ErrInvalidGuest)
	assert.False(t, errors.Is(err, ErrConnectivity))
}

func TestClient_Connectivity(t *testing.T) {
	srv := newServer(t)
	url := srv.URL
	srv.Close()

	_, err := New(url).List(context.Background())
	require.ErrorIs(t, err, ErrConnectivity)
	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
}

func TestClient_BadResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		call   func(*Client) error
		want   error
	}{
		{"not json", http.StatusOK, "hello", func(c *Client) error {
			_, err := c.Load(context.Background(), "x")
			return err
		}, ErrBadResponse},
		{"guest breaks invariant", http.StatusOK, `{"guest":{"name":"x","side":"Molly","family":false,"plusOneName":"y"}}`,
			func(c *Client) error {
				_, err := c.Load(context.Background(), "x")
				return err
			}, models.ErrInvalidGuest},
		{"guests not array", http.StatusOK, `{"guests":{}}`, func(c *Client) error {
			_, err := c.List(context.Background())
			return err
		}, ErrBadResponse},
		{"guests contains junk", http.StatusOK, `{"guests":[{"name":"a","side":"Molly","family":true},7]}`,
			func(c *Client) error {
				_, err := c.List(context.Background())
				return err
			}, ErrBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := tt.call(New(srv.URL))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "bad status code from /api/list: 500", err.Error())
}
