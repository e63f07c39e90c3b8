package adapters

import (
	"context"
	"fmt"
	"os"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"docref/internal/types"
)

type SchemaFileAdapter struct{}

func NewSchemaFileAdapter() SchemaFileAdapter {
	return SchemaFileAdapter{}
}

// Load reads and parses a schema.yaml file without validating it.
func (a SchemaFileAdapter) Load(path string) (types.SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SchemaFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("schema file not found").
			WithCause(err)
	}
	var file types.SchemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.SchemaFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse schema yaml").
			WithCause(err)
	}
	return file, nil
}

// Validate checks the internal consistency of a schema file: every
// direct reference and virtual must point at a declared collection and
// virtuals must carry a foreign field.
func (a SchemaFileAdapter) Validate(ctx context.Context, file types.SchemaFile) error {
	assert.NotEmpty(ctx, file.SchemaVersion, "schema_version must be set")
	if len(file.Collections) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema declares no collections")
	}
	for name, schema := range file.Collections {
		if name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("collection name must not be empty")
		}
		for field, def := range schema.Fields {
			if field == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("collection %s declares a field with an empty name", name))
			}
			if def.Ref == "" {
				continue
			}
			if _, ok := file.Collections[def.Ref]; !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("field %s.%s references unknown collection %s", name, field, def.Ref))
			}
		}
		for virtual, def := range schema.Virtuals {
			if virtual == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("collection %s declares a virtual with an empty name", name))
			}
			if def.Ref == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("virtual %s.%s is missing ref", name, virtual))
			}
			if _, ok := file.Collections[def.Ref]; !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("virtual %s.%s references unknown collection %s", name, virtual, def.Ref))
			}
			if def.ForeignField == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("virtual %s.%s is missing foreignField", name, virtual))
			}
		}
	}
	log.Ctx(ctx).Debug().Int("collections", len(file.Collections)).Msg("schema validated")
	return nil
}
