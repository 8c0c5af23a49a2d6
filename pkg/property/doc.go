// Package property implements dependency properties: globally registered,
// typed slots whose metadata (default value, coercion, change callback)
// can be overridden per element kind.
//
// # Types
//
// Go has no class hierarchy to walk, so element kinds describe themselves
// with an explicit Type table built at init time:
//
//	var ControlType = property.NewType("Control", layout.FrameworkElementType)
//
// Metadata resolution walks Type.Base from the object's concrete Type up to
// the property's owner, returning the nearest override.
//
// # Registration
//
//	var WidthProperty = property.MustRegister[float64]("Width", ElementType,
//	    &property.FrameworkMetadata{
//	        PropertyMetadata: property.PropertyMetadata{Default: math.NaN()},
//	        Flags:            property.AffectsLayout,
//	    }, nil)
//
// Registering the same (owner, name) pair twice is a configuration error.
//
// # Stores
//
// Every object embeds a Store and binds it with Init. The first read of a
// property materializes its default and caches it. Writes convert scalar
// values, coerce, notify and then commit:
//
//	old := WidthProperty.Set(element, 50)
//
// Notifications can be muted per instance with Descriptor.Suspend or the
// Suspended helper, which restores them even when the body panics.
package property
