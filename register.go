package capsule

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rawbytedev/capsule/internal/common"
)

// Validation results are cached per type so the reflect walk runs once per
// participating type, not per call.
var (
	planMu       sync.RWMutex
	valuePlans   = make(map[reflect.Type]error)
	payloadPlans = make(map[reflect.Type]error)
)

// Register validates once that V is fixed-size plain data: primitives,
// arrays, and structs thereof, with no pointers, strings, slices, maps,
// channels, funcs, or interfaces anywhere inside. Pack and Unpack run the
// same validation lazily on first use; calling Register up front only moves
// the failure earlier. In capsule_unchecked builds it is a no-op.
func Register[V any]() error {
	if !ChecksEnabled {
		return nil
	}
	return validateValue(reflect.TypeFor[V]())
}

func validateValue(t reflect.Type) error {
	planMu.RLock()
	err, ok := valuePlans[t]
	planMu.RUnlock()
	if ok {
		return err
	}

	planMu.Lock()
	defer planMu.Unlock()
	// Double-check
	if err, ok := valuePlans[t]; ok {
		return err
	}
	err = walkPlain(t, t)
	valuePlans[t] = err
	return err
}

func walkPlain(root, t reflect.Type) error {
	switch {
	case common.IsFixedKind(t.Kind()):
		return nil
	case t.Kind() == reflect.Array:
		return walkPlain(root, t.Elem())
	case t.Kind() == reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := walkPlain(root, t.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	default:
		if root == t {
			return fmt.Errorf("%w: %s is %s", ErrNotPlainData, root, t.Kind())
		}
		return fmt.Errorf("%w: %s contains %s (%s)", ErrNotPlainData, root, t, t.Kind())
	}
}

// validatePayload checks that a capsule's payload type parameter is a plain
// byte array, the only shape the codec treats as opaque storage.
func validatePayload(t reflect.Type) error {
	planMu.RLock()
	err, ok := payloadPlans[t]
	planMu.RUnlock()
	if ok {
		return err
	}

	planMu.Lock()
	defer planMu.Unlock()
	if err, ok := payloadPlans[t]; ok {
		return err
	}
	if t.Kind() != reflect.Array || t.Elem().Kind() != reflect.Uint8 {
		err = fmt.Errorf("%w: %s", ErrBadPayloadType, t)
	}
	payloadPlans[t] = err
	return err
}
