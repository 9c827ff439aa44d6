// Package api defines the kanzlei RPC surface: request and response messages,
// procedure names, and Connect handler and client constructors for each service.
//
// Messages are plain Go structs encoded as JSON. The Codec replaces Connect's
// protobuf-JSON codec, so both browsers and Go clients speak the same format.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Connect codec names. Browsers send "application/json; charset=utf-8", which
// Connect resolves to a codec of its own name.
const (
	CodecName        = "json"
	CodecNameCharset = CodecName + "; charset=utf-8"
)

// Codec encodes messages with encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body leaves msg at its zero value.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// charsetCodec is Codec registered under CodecNameCharset.
type charsetCodec struct{ Codec }

func (charsetCodec) Name() string { return CodecNameCharset }

func unaryHandler[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) *connect.Handler {
	return connect.NewUnaryHandler(procedure, fn,
		append([]connect.HandlerOption{connect.WithCodec(Codec{}), connect.WithCodec(charsetCodec{})}, opts...)...)
}

func unaryClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure,
		append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)...)
}

// serviceHandler routes requests below "/<service>/" to the handler for their procedure.
func serviceHandler(service string, handlers map[string]*connect.Handler) (string, http.Handler) {
	path := "/" + service + "/"
	return path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
