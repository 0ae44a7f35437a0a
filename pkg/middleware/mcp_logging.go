package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/logging"
)

// MCPRequestLogger returns middleware that logs MCP tools/call requests with
// the tool name, truncated arguments and whether the tool reported an error.
// Other JSON-RPC methods pass through unlogged. Pass nil logger to disable logging.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("Failed to read MCP request body", zap.Error(err))
				writeError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var call toolCallRequest
			if err := json.Unmarshal(bodyBytes, &call); err != nil || call.Method != "tools/call" {
				next.ServeHTTP(w, r)
				return
			}

			recorder := &mcpResponseRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(recorder, r)

			fields := []zap.Field{
				zap.String("tool", call.Params.Name),
				zap.Any("arguments", truncateArguments(call.Params.Arguments)),
				zap.Duration("duration", time.Since(start)),
			}

			var resp toolCallResponse
			if err := json.Unmarshal(recorder.body.Bytes(), &resp); err != nil {
				logger.Info("MCP tool call", fields...)
				return
			}

			switch {
			case resp.Error != nil:
				logger.Warn("MCP tool call failed", append(fields,
					zap.Int("error_code", resp.Error.Code),
					zap.String("error_message", resp.Error.Message))...)
			case resp.Result.IsError:
				logger.Info("MCP tool call returned error result", append(fields, zap.Bool("is_error", true))...)
			default:
				logger.Info("MCP tool call", fields...)
			}
		})
	}
}

type toolCallRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type toolCallResponse struct {
	Result struct {
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// mcpResponseRecorder copies the response body while passing it through.
type mcpResponseRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *mcpResponseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *mcpResponseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// truncateArguments shortens long string arguments, including strings inside arrays.
func truncateArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	result := make(map[string]any, len(args))
	for k, v := range args {
		result[k] = truncateValue(v)
	}
	return result
}

func truncateValue(v any) any {
	switch t := v.(type) {
	case string:
		return logging.TruncateString(strings.TrimSpace(t), logging.MaxValueLogLength)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = truncateValue(e)
		}
		return out
	default:
		return v
	}
}
