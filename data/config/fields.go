package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Field types understood by the relational stores.
const (
	FieldString = "string"
	FieldInt    = "int"
	FieldFloat  = "float"
	FieldBool   = "bool"
	FieldTime   = "time"
)

// Field declares one record column for stores with a fixed schema.
type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// DefaultFields is the record schema used when none is configured.
func DefaultFields() []*Field {
	return []*Field{
		{Name: "createdAt", Type: FieldTime},
		{Name: "name", Type: FieldString},
		{Name: "score", Type: FieldInt},
	}
}

// getFieldConfigs reads the record schema
func getFieldConfigs(v *viper.Viper) []*Field {
	raw, ok := v.Get("data.fields").([]any)
	if !ok || len(raw) == 0 {
		return DefaultFields()
	}

	var fields []*Field
	for i := range raw {
		f := &Field{
			Name: v.GetString(fmt.Sprintf("data.fields.%d.name", i)),
			Type: getStringOrDefault(v, fmt.Sprintf("data.fields.%d.type", i), FieldString),
		}
		if f.Name != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
