package types

import "encoding/json"

// NodeType identifies which executor handles a node.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeEnd       NodeType = "end"
	NodeTypePython    NodeType = "python"
	NodeTypeTypeScript NodeType = "typescript"
	NodeTypeHTTP      NodeType = "http"
	NodeTypeFile      NodeType = "file"
	NodeTypeCondition NodeType = "condition"
	NodeTypeDatabase  NodeType = "database"
	NodeTypeLLM       NodeType = "llm"
	NodeTypeForEach   NodeType = "foreach"
	NodeTypeEndLoop   NodeType = "endloop"
	NodeTypeMarkdown  NodeType = "markdown"
	NodeTypeHTML      NodeType = "html"
	NodeTypeJSON      NodeType = "json"
	NodeTypeEmbedding NodeType = "embedding"
)

// Node is a single vertex of a submitted workflow graph.
type Node struct {
	ID                  string                 `json:"-"`
	Type                NodeType               `json:"type"`
	Title               string                 `json:"title,omitempty"`
	Code                string                 `json:"code,omitempty"`
	Config              map[string]interface{} `json:"config,omitempty"`
	SkipDuringExecution bool                   `json:"skipDuringExecution,omitempty"`
}

// Connection is a directed data-flow edge between two nodes. SourceOutput
// and TargetInput are accepted on the wire but are not used for routing —
// every node consumes exactly one predecessor's whole output.
type Connection struct {
	ID           string `json:"-"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceOutput string `json:"sourceOutput,omitempty"`
	TargetInput  string `json:"targetInput,omitempty"`
}

// Workflow is the decoded request body of POST /run.
type Workflow struct {
	Nodes       map[string]Node       `json:"nodes"`
	Connections map[string]Connection `json:"connections"`

	// NodeOrder/ConnectionOrder preserve the JSON object key order of the
	// request. encoding/json decodes maps with randomized Go map iteration,
	// so the fan-in "first predecessor wins" tie-break would
	// otherwise be nondeterministic between runs of the identical request.
	NodeOrder       []string `json:"-"`
	ConnectionOrder []string `json:"-"`
}

// UnmarshalJSON decodes the workflow while recording the original key order
// of the nodes/connections objects, and stamps each Node/Connection with its
// map key as ID.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes       json.RawMessage `json:"nodes"`
		Connections json.RawMessage `json:"connections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	nodes, nodeOrder, err := decodeOrderedNodes(raw.Nodes)
	if err != nil {
		return err
	}
	conns, connOrder, err := decodeOrderedConnections(raw.Connections)
	if err != nil {
		return err
	}

	w.Nodes = nodes
	w.NodeOrder = nodeOrder
	w.Connections = conns
	w.ConnectionOrder = connOrder
	return nil
}

func decodeOrderedNodes(data json.RawMessage) (map[string]Node, []string, error) {
	nodes := make(map[string]Node)
	order := make([]string, 0)
	if len(data) == 0 {
		return nodes, order, nil
	}

	dec := json.NewDecoder(bytesReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := keyTok.(string)

		var n Node
		if err := dec.Decode(&n); err != nil {
			return nil, nil, err
		}
		n.ID = key
		nodes[key] = n
		order = append(order, key)
	}
	return nodes, order, nil
}

func decodeOrderedConnections(data json.RawMessage) (map[string]Connection, []string, error) {
	conns := make(map[string]Connection)
	order := make([]string, 0)
	if len(data) == 0 {
		return conns, order, nil
	}

	dec := json.NewDecoder(bytesReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := keyTok.(string)

		var c Connection
		if err := dec.Decode(&c); err != nil {
			return nil, nil, err
		}
		c.ID = key
		conns[key] = c
		order = append(order, key)
	}
	return conns, order, nil
}
