package executor

import (
	"encoding/base64"
	"encoding/binary"
	"hash/fnv"
	"math"
	"strings"

	"github.com/flowforge/engine/pkg/state"
	"github.com/flowforge/engine/pkg/types"
)

const defaultEmbeddingDim = 256

// EmbeddingExecutor embeds the text found at input_field (or the first
// string value, or the input itself) into a fixed-width vector using
// deterministic feature hashing: no model weights to load and no network
// call, so the cached "model" is really just a name/dimension pair that
// future nodes sharing the same model name agree on.
type EmbeddingExecutor struct{}

func (e *EmbeddingExecutor) NodeType() types.NodeType { return types.NodeTypeEmbedding }

func (e *EmbeddingExecutor) Execute(_ ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	modelName := types.GetStringDefault(node.Config, "model", "default")
	inputField, _ := types.GetString(node.Config, "input_field")
	outputField := types.GetStringDefault(node.Config, "output_field", "embedding")
	format := types.GetStringDefault(node.Config, "format", "array")

	model, err := state.GetOrCreateEmbeddingModel(modelName, defaultEmbeddingDim)
	if err != nil {
		return types.Failure(err, "", 0)
	}

	text, ok := resolveEmbeddingText(input, inputField)
	if !ok {
		return types.Failure(ErrNoStringContent, "", 0)
	}

	vector := hashEmbed(text, model.Dim)
	bytesOut := vectorToBytes(vector)

	result := map[string]interface{}{}
	if m, ok := types.AsMap(input); ok {
		for k, v := range m {
			result[k] = v
		}
	}

	array := make([]interface{}, len(vector))
	for i, f := range vector {
		array[i] = f
	}

	var embeddingValue interface{} = array
	if format == "blob" {
		embeddingValue = base64.StdEncoding.EncodeToString(bytesOut)
	}

	result[outputField] = embeddingValue
	result[outputField+"_array"] = array
	result[outputField+"_bytes"] = base64.StdEncoding.EncodeToString(bytesOut)
	result[outputField+"_dim"] = model.Dim

	return types.Success(result, 0)
}

// resolveEmbeddingText implements the embedding node's text-source
// fallback chain: input_field, else the first string value found in a
// mapping input, else the input itself when it is already a string.
func resolveEmbeddingText(input interface{}, inputField string) (string, bool) {
	if inputField != "" {
		if m, ok := types.AsMap(input); ok {
			if v, ok := types.GetPath(m, inputField); ok {
				if s, ok := v.(string); ok {
					return s, true
				}
			}
		}
	}
	if m, ok := types.AsMap(input); ok {
		for _, v := range m {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
		return "", false
	}
	if s, ok := input.(string); ok {
		return s, true
	}
	return "", false
}

// hashEmbed produces a deterministic unit-normalized bag-of-words
// embedding: each whitespace-split token is hashed (FNV-1a) into a
// dimension and signed bucket, following the standard hashing-trick
// feature vectorization scheme.
func hashEmbed(text string, dim int) []float64 {
	vec := make([]float64, dim)
	for _, token := range strings.Fields(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		idx := int(h.Sum32()) % dim
		if idx < 0 {
			idx += dim
		}

		sh := fnv.New32a()
		sh.Write([]byte(token))
		sh.Write([]byte("#sign"))
		sign := 1.0
		if sh.Sum32()%2 == 0 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func vectorToBytes(vec []float64) []byte {
	buf := make([]byte, 8*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}
