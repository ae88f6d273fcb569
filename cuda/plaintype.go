/*
 *	Copyright 2025 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package cuda

import (
	"reflect"

	"github.com/pkg/errors"
)

// isPlainType returns whether values of type t can be copied byte by byte to and from the device:
// fixed-size and without pointers.
func isPlainType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlainType(t.Elem())
	case reflect.Struct:
		for ii := range t.NumField() {
			if !isPlainType(t.Field(ii).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// plainSize returns the size in bytes and the name of T, or an error if T can't be stored in device memory.
func plainSize[T any]() (size uintptr, typeName string, err error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return 0, t.String(), errors.Errorf("type %s is an interface, device memory requires a concrete plain data type", t)
	}
	typeName = t.String()
	if !isPlainType(t) {
		return 0, typeName, errors.Errorf("type %s can't be stored in device memory: it must be fixed-size and contain no pointers", t)
	}
	size = t.Size()
	if size == 0 {
		return 0, typeName, errors.Errorf("type %s has size 0, it can't be stored in device memory", t)
	}
	return size, typeName, nil
}
