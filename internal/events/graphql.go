package events

import "time"

// GraphQLStart is emitted immediately before an operation executes.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted once an operation's result is assembled.
// ErrorCount is the number of errors in the result, located field errors
// included.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	ErrorCount    int
	Duration      time.Duration
}
