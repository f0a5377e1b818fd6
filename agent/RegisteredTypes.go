package agent

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	GreedyRewardMLP  Type = "GreedyReward-MLP"
	NeuralEGreedyMLP Type = "NeuralEGreedy-MLP"
)

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that type can be deserialized.
//
// No Type's are registered with this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type so
// that upon deserialization of a TypedConfig, Configs of type
// agentType are deserialized into the concrete type of config.
func Register(agentType Type, config Config) {
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// TypedConfig explicitly stores the Type of a Config so that the
// Config can be deserialized into its concrete type without knowing
// the concrete type beforehand.
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var typeName Type
	if err := json.Unmarshal(fields["Type"], &typeName); err != nil {
		return fmt.Errorf("unmarshalJSON: could not read config type: %v",
			err)
	}

	ty, ok := registeredTypes[typeName]
	if !ok {
		return fmt.Errorf("unmarshalJSON: no config registered for type %q",
			typeName)
	}

	value := reflect.New(ty)
	if raw, ok := fields["Config"]; ok {
		if err := json.Unmarshal(raw, value.Interface()); err != nil {
			return fmt.Errorf("unmarshalJSON: could not read %v config: %v",
				typeName, err)
		}
	}

	t.Type = typeName
	t.Config = value.Elem().Interface().(Config)
	return nil
}
