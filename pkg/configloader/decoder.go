package configloader

import (
	"github.com/mitchellh/mapstructure"
)

// decode переводит map из viper в структуру. Значения из ENV всегда строки:
// "8080" → int, "true" → bool и "0.5" → float приводит WeaklyTypedInput,
// "10s" → time.Duration приводит hook.
func decode(input map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           target,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
