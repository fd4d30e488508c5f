package verbs

const (
	Get    = VerbValue("get")
	List   = VerbValue("list")
	Delete = VerbValue("delete")
	Seed   = VerbValue("seed")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (get, list, delete, seed)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}
