package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), Options{Driver: DriverMemory}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, store.Users)
	require.NotNil(t, store.Events)
	require.NoError(t, store.Pinger.Ping(context.Background()))
	require.NoError(t, store.Close(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "sqlite"}, zerolog.Nop())
	require.ErrorContains(t, err, "sqlite")
}
