package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"docref/internal/ports"
	"docref/internal/types"
)

// RequestFileAdapter loads population requests from a YAML or JSON file.
// The file may hold a sequence of entries, a single request object, or a
// bare path string; string entries may name several space separated paths.
type RequestFileAdapter struct{}

func NewRequestFileAdapter() RequestFileAdapter {
	return RequestFileAdapter{}
}

func (a RequestFileAdapter) Load(path string) ([]types.PopulationRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read request file %s", path)).
			WithCause(err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse request file %s", path)).
			WithCause(err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	var nodes []*yaml.Node
	switch doc.Kind {
	case yaml.SequenceNode:
		nodes = doc.Content
	case yaml.MappingNode, yaml.ScalarNode:
		nodes = []*yaml.Node{doc}
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("request file %s must hold a list, object or string", path))
	}
	requests := make([]types.PopulationRequest, 0, len(nodes))
	for _, node := range nodes {
		switch node.Kind {
		case yaml.ScalarNode:
			for _, field := range strings.Fields(node.Value) {
				requests = append(requests, types.PopulationRequest{Path: field})
			}
		case yaml.MappingNode:
			var req types.PopulationRequest
			if err := node.Decode(&req); err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("failed to decode request entry in %s", path)).
					WithCause(err)
			}
			if strings.TrimSpace(req.Path) == "" {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("request entry without path in %s", path))
			}
			requests = append(requests, req)
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported request entry in %s", path))
		}
	}
	return requests, nil
}

var _ ports.RequestSourcePort = RequestFileAdapter{}
