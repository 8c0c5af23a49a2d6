package property

import "reflect"

var (
	reflectFloat  = reflect.TypeFor[float64]()
	reflectInt    = reflect.TypeFor[int]()
	reflectString = reflect.TypeFor[string]()
)
