package executor

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/flowforge/engine/pkg/security"
	"github.com/flowforge/engine/pkg/template"
	"github.com/flowforge/engine/pkg/types"
)

// FileExecutor performs one filesystem operation against the file node's
// safe directory: { operation, path, content, encoding }. A client-specified
// path is always confined to its basename under the safe root, so a
// traversal or absolute path can never escape it.
type FileExecutor struct{}

func (e *FileExecutor) NodeType() types.NodeType { return types.NodeTypeFile }

func (e *FileExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	inputMap, _ := types.AsMap(input)

	rawCfg := template.SubstituteValue(node.Config, inputMap)
	cfg, _ := types.AsMap(rawCfg)

	operation := types.GetStringDefault(cfg, "operation", "read")
	path, _ := types.GetString(cfg, "path")
	if path == "" {
		return types.Failure(fmt.Errorf("%w: file node requires a path", ErrFileNotFound), "", 0)
	}
	encoding := types.GetStringDefault(cfg, "encoding", "utf-8")

	safeFS, err := security.NewSafeFS(ctx.Config().SafeFileDir)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrPathEscapesRoot, err), "", 0)
	}
	name := safeFS.Resolve(path)
	fs := safeFS.Fs()

	switch operation {
	case "read":
		data, err := afero.ReadFile(fs, name)
		if err != nil {
			if os.IsNotExist(err) {
				return types.Failure(fmt.Errorf("%w: %s", ErrFileNotFound, name), "", 0)
			}
			return types.Failure(fmt.Errorf("%w: %v", ErrFileNotFound, err), "", 0)
		}
		return types.Success(map[string]interface{}{
			"path":    name,
			"content": decodeFileContent(data, encoding),
		}, 0)

	case "write", "append":
		content, _ := types.GetString(cfg, "content")
		flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if operation == "append" {
			flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		f, err := fs.OpenFile(name, flag, 0o644)
		if err != nil {
			return types.Failure(fmt.Errorf("%w: %v", ErrFileNotFound, err), "", 0)
		}
		defer f.Close()
		if _, err := f.Write(encodeFileContent(content, encoding)); err != nil {
			return types.Failure(fmt.Errorf("%w: %v", ErrFileNotFound, err), "", 0)
		}
		return types.Success(map[string]interface{}{"path": name, "operation": operation}, 0)

	case "delete":
		if err := fs.Remove(name); err != nil {
			if os.IsNotExist(err) {
				return types.Failure(fmt.Errorf("%w: %s", ErrFileNotFound, name), "", 0)
			}
			return types.Failure(fmt.Errorf("%w: %v", ErrFileNotFound, err), "", 0)
		}
		return types.Success(map[string]interface{}{"path": name, "deleted": true}, 0)

	case "list":
		entries, err := afero.ReadDir(fs, ".")
		if err != nil {
			return types.Failure(fmt.Errorf("%w: %v", ErrFileNotFound, err), "", 0)
		}
		names := make([]interface{}, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return types.Success(map[string]interface{}{"files": names}, 0)

	default:
		return types.Failure(fmt.Errorf("%w: unknown file operation %q", ErrFileNotFound, operation), "", 0)
	}
}

func decodeFileContent(data []byte, encoding string) interface{} {
	if encoding == "base64" {
		return base64.StdEncoding.EncodeToString(data)
	}
	return string(data)
}

func encodeFileContent(content, encoding string) []byte {
	if encoding == "base64" {
		if decoded, err := base64.StdEncoding.DecodeString(content); err == nil {
			return decoded
		}
	}
	return []byte(content)
}
