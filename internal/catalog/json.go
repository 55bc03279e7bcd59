package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bonuscheck/receipt-pipeline/internal/common"
)

// snapshotSchema constrains catalog JSON snapshots: an object mapping SKU
// codes to non-empty arrays of alias strings.
const snapshotSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "array",
    "minItems": 1,
    "items": {"type": "string", "minLength": 1}
  }
}`

// LoadJSON reads and validates a catalog alias snapshot file. A snapshot
// that fails schema validation is a programming/operations error, not a
// data-quality signal, so it propagates.
func LoadJSON(path string) (AliasIndex, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}
	return ParseJSON(raw)
}

// ParseJSON validates raw snapshot bytes against the catalog schema and
// builds the ordered index.
func ParseJSON(raw []byte) (AliasIndex, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.json", bytes.NewReader([]byte(snapshotSchema))); err != nil {
		return nil, fmt.Errorf("add catalog schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, common.NewAppError("CATALOG_DECODE", "snapshot is not valid JSON", common.ErrMalformedCatalog)
	}
	if err := schema.Validate(v); err != nil {
		return nil, common.NewAppError("CATALOG_SCHEMA", err.Error(), common.ErrMalformedCatalog)
	}

	var m map[string][]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, common.NewAppError("CATALOG_DECODE", "snapshot shape mismatch", common.ErrMalformedCatalog)
	}
	return FromMap(m), nil
}
