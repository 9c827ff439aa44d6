package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoProcedure = "/kanzlei.v1.EchoService/Echo"

func echo(_ context.Context, req *connect.Request[IDRequest]) (*connect.Response[IDRequest], error) {
	return connect.NewResponse(req.Msg), nil
}

func TestHandlerAcceptsJSONContentTypes(t *testing.T) {
	server := httptest.NewServer(unaryHandler(echoProcedure, echo, nil))
	t.Cleanup(server.Close)

	for _, contentType := range []string{"application/json", "application/json; charset=utf-8"} {
		t.Run(contentType, func(t *testing.T) {
			resp, err := http.Post(server.URL+echoProcedure, contentType, strings.NewReader(`{"id":"abc"}`))
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			assert.Equal(t, contentType, resp.Header.Get("Content-Type"))
			assert.JSONEq(t, `{"id":"abc"}`, string(body))
		})
	}
}

func TestClientRoundTrip(t *testing.T) {
	server := httptest.NewServer(unaryHandler(echoProcedure, echo, nil))
	t.Cleanup(server.Close)

	client := unaryClient[IDRequest, IDRequest](server.Client(), server.URL+"/", echoProcedure, nil)
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&IDRequest{ID: "xyz"}))
	require.NoError(t, err)
	assert.Equal(t, "xyz", resp.Msg.ID)
}

func TestCodecEmptyBody(t *testing.T) {
	var req IDRequest
	require.NoError(t, Codec{}.Unmarshal(nil, &req))
	assert.Empty(t, req.ID)
	assert.Equal(t, CodecNameCharset, charsetCodec{}.Name())
}
