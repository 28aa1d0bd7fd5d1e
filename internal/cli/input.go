package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aristath/qrep/internal/modules/catalog"
	"github.com/aristath/qrep/internal/qexpr"
)

// readExpr decodes the expression in path, or in stdin when path is empty
// or "-". Files ending in .json are parsed as JSON, everything else as YAML.
func readExpr(stdin io.Reader, path string, registry *catalog.Registry) (qexpr.Expr, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read expression: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return qexpr.DecodeJSON(data, registry)
	}
	return qexpr.DecodeYAML(data, registry)
}

// parseOptions turns key=value pairs into representation extras. Integers
// and floats are converted; anything else, such as j=1/2, stays a string.
func parseOptions(raw map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if n, err := strconv.Atoi(v); err == nil {
			out[k] = n
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[k] = f
			continue
		}
		out[k] = v
	}
	return out
}
