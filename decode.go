package cascade

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decodeValue coerces a raw provider value into target (a non-nil pointer).
// Weak typing lets "8080" fill an int and "30s" fill a time.Duration.
func decodeValue(raw any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		MatchName:        matchArgName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return decoder.Decode(raw)
}

// DecodeArgs decodes loosely typed args into an options struct.
// Provider factories use it to turn registry arguments into their Options.
func DecodeArgs(args Args, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		MatchName:        matchArgName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return decoder.Decode(map[string]any(args))
}

// matchArgName accepts "secret_path" for a field named SecretPath.
func matchArgName(mapKey, fieldName string) bool {
	return normalizeArgName(mapKey) == normalizeArgName(fieldName)
}

func normalizeArgName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '-':
			continue
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
