package response

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/pkg/ctxLogger"
)

type Response struct {
	showError bool
}

type BaseResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewResponse(showErr bool) *Response {
	return &Response{showError: showErr}
}

func (resp *Response) Error(ctx context.Context, w http.ResponseWriter, err error, code int, message string) {
	if err != nil {
		ctxLogger.Warn(ctx, message, zap.Error(err), zap.Int("code", code))
	}
	var data interface{}
	if err != nil && resp.showError {
		data = err.Error()
	}
	resp.write(ctx, w, code, BaseResponse{
		Message: message,
		Data:    data,
	})
}

func (resp *Response) Ok(ctx context.Context, w http.ResponseWriter, data interface{}) {
	resp.write(ctx, w, http.StatusOK, BaseResponse{
		Message: "ok",
		Data:    data,
	})
}

// Raw copies an upstream response through unchanged.
func (resp *Response) Raw(ctx context.Context, w http.ResponseWriter, upstream *http.Response) {
	defer func() {
		_ = upstream.Body.Close()
	}()
	for k, values := range upstream.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(upstream.StatusCode)
	if _, err := io.Copy(w, upstream.Body); err != nil {
		ctxLogger.Warn(ctx, "failed copying upstream response", zap.Error(err))
	}
}

func (resp *Response) write(ctx context.Context, w http.ResponseWriter, code int, body BaseResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxLogger.Warn(ctx, "failed encoding response", zap.Error(err))
	}
}
