package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

// resultToText serializes a StepResult to YAML for MCP response.
func resultToText(result StepResult) string {
	b, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Sprintf("ok: %v\naction: %s\nerror: %s", result.OK, result.Action, result.Error)
	}
	return string(b)
}

// stepHandler runs one step per tool call.
func (s *Server) stepHandler(action string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := request.GetArguments()

		s.mu.Lock()
		defer s.mu.Unlock()

		result, err := s.runner.Execute(ctx, action, params)
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			s.logger.Debug().Err(err).Str("action", action).Msg("Tool failed")
			return mcp.NewToolResultError(resultToText(result)), nil
		}
		result.OK = true
		return mcp.NewToolResultText(resultToText(result)), nil
	}
}

// VariableValue is one resolved variable.
type VariableValue struct {
	Key   string `yaml:"key"             json:"key"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
	Found bool   `yaml:"found"           json:"found"`
}

// keyLister is implemented by variable providers that can enumerate keys.
type keyLister interface {
	Keys() []string
}

// ResolveVariables looks up keys, or every known key when keys is empty.
func (r *Runner) ResolveVariables(keys []string) ([]VariableValue, error) {
	vars := r.Engine.Variables()
	if len(keys) == 0 {
		lister, ok := vars.(keyLister)
		if !ok {
			return nil, fmt.Errorf("variable provider cannot list keys")
		}
		keys = lister.Keys()
	}
	out := make([]VariableValue, 0, len(keys))
	for _, k := range keys {
		v, ok := vars.Value(k)
		out = append(out, VariableValue{Key: k, Value: v, Found: ok})
	}
	return out, nil
}

func (s *Server) handleVariables(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	var keys []string
	for _, k := range strings.Split(StringParam(params, "keys", ""), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}

	values, err := s.runner.ResolveVariables(keys)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, _ := yaml.Marshal(values)
	return mcp.NewToolResultText(string(b)), nil
}
