package treecheck

// NotSetType is the type of the NotSet sentinel. It represents "no value was
// provided", distinct from nil.
type NotSetType struct{}

func (NotSetType) String() string { return "NotSet" }

// NotSet is the distinguished missing-value placeholder. Enforce renders its
// type as "<not set>" in error messages unless that labeling is disabled.
var NotSet = NotSetType{}

// IsNotSet reports whether v is the missing-value sentinel.
func IsNotSet(v any) bool {
	_, ok := v.(NotSetType)
	return ok
}
