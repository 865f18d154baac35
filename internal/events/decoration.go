package events

// Decoration is emitted once per decorated object. Collection elements emit
// one event each.
type Decoration struct {
	// TypeName is the GraphQL type the decorated object resolved as.
	TypeName string
	// Class is the Go type name of the selected decorator class.
	Class string
}
