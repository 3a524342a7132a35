package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	grpcClient "catalog-service/internal/grpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) GetContentInfo(ctx context.Context, id int64) (grpcClient.ContentInfo, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(grpcClient.ContentInfo), args.Bool(1), args.Error(2)
}

func (m *mockClient) CheckContentExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockClient) Close() error {
	return nil
}

func execute(client *mockClient, args ...string) (string, string, error) {
	cmd := newRootCmd(func(string) (catalogClient, error) {
		return client, nil
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInfo(t *testing.T) {
	client := new(mockClient)
	rating := 8.7
	client.On("GetContentInfo", mock.Anything, int64(1)).Return(grpcClient.ContentInfo{
		ID: 1, Title: "The Matrix", ContentType: "MOVIE", Genre: "Sci-Fi", ReleaseYear: 1999, Rating: &rating,
	}, true, nil)

	out, _, err := execute(client, "info", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "The Matrix"`)
	assert.Contains(t, out, `"rating": 8.7`)
	client.AssertExpectations(t)
}

func TestInfo_NotFound(t *testing.T) {
	client := new(mockClient)
	client.On("GetContentInfo", mock.Anything, int64(9)).Return(grpcClient.ContentInfo{}, false, nil)

	_, _, err := execute(client, "info", "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNotFound))
	assert.Contains(t, err.Error(), "content not found with id: 9")
}

func TestExists(t *testing.T) {
	client := new(mockClient)
	client.On("CheckContentExists", mock.Anything, int64(2)).Return(false, nil)

	out, _, err := execute(client, "exists", "2")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestExists_RemoteError(t *testing.T) {
	client := new(mockClient)
	client.On("CheckContentExists", mock.Anything, int64(2)).Return(false, errors.New("unavailable"))

	_, _, err := execute(client, "exists", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestAddrFlag(t *testing.T) {
	client := new(mockClient)
	client.On("CheckContentExists", mock.Anything, int64(5)).Return(true, nil)

	var dialed string
	cmd := newRootCmd(func(addr string) (catalogClient, error) {
		dialed = addr
		return client, nil
	})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--addr", "catalog:9092", "exists", "5"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "catalog:9092", dialed)
}

func TestBadArgs(t *testing.T) {
	client := new(mockClient)
	for _, args := range [][]string{
		{"info"},
		{"info", "abc"},
		{"exists", "0"},
		{"exists", "1", "2"},
		{"remove", "1"},
	} {
		_, _, err := execute(client, args...)
		assert.Error(t, err, args)
	}
	client.AssertNotCalled(t, "GetContentInfo", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CheckContentExists", mock.Anything, mock.Anything)
}
