package picturemaker

import (
	"encoding/json"
	"fmt"
)

// panicError carries a value recovered from a collaborator panic (Rod's
// Must* helpers panic with errors; other code may panic with anything).
type panicError struct {
	value any
}

func (e *panicError) Error() string { return describe(e.value) }

func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// describe renders a failure for the ERROR event: text as-is, errors by
// their message, anything else as JSON.
func describe(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
