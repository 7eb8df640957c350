package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/ncobase/keyset/paging"
	"github.com/spf13/viper"
)

// Paging paginator config
type Paging = paging.Config

// getPagingConfig decodes the paging section over the defaults. Unknown keys
// are rejected. When id_field is not given, the store's identity field is
// used.
func getPagingConfig(v *viper.Viper, idField string) (*Paging, error) {
	cfg := paging.DefaultConfig()
	if idField != "" {
		cfg.IDField = idField
	}

	if v.IsSet("paging") {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "mapstructure",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(v.GetStringMap("paging")); err != nil {
			return nil, fmt.Errorf("invalid paging config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid paging config: %w", err)
	}
	return cfg, nil
}
