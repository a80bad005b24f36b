package internal

import (
	"fmt"
	"net/http"
)

// Condition names a branch of a generated controller operation.
type Condition string

const (
	InvalidID   Condition = "invalid-id"
	LookupError Condition = "lookup-error"
	NotFound    Condition = "not-found"
	WriteError  Condition = "write-error"
	Success     Condition = "success"
)

// Outcome is the result a controller operation completes with on one
// branch. Failures carry Message, or pass the store error through when
// Message is empty. Successes carry the JavaScript variable named by the
// operation's Value.
type Outcome struct {
	Condition Condition
	Status    int
	Message   string
}

// Failed reports whether the outcome completes with fail(...).
func (o Outcome) Failed() bool {
	return o.Condition != Success
}

type Operation struct {
	Name     string
	Value    string
	Outcomes []Outcome
}

// Outcome returns the branch for cond.
func (op Operation) Outcome(cond Condition) (Outcome, bool) {
	for _, o := range op.Outcomes {
		if o.Condition == cond {
			return o, true
		}
	}
	return Outcome{}, false
}

// ControllerOperations describes the five operations generated for model
// in the order they are exported.
type ControllerOperations struct {
	GetAll Operation
	Get    Operation
	Add    Operation
	Modify Operation
	Delete Operation
}

func (ops ControllerOperations) All() []Operation {
	return []Operation{ops.GetAll, ops.Get, ops.Add, ops.Modify, ops.Delete}
}

// NewControllerOperations builds the outcome table for model. Lookups by
// id reject malformed ids with 400 and missing records with 404; store
// failures surface as 500 with the raw error.
func NewControllerOperations(model string) ControllerOperations {
	name := CapitalizeFirst(model)
	invalid := Outcome{InvalidID, http.StatusBadRequest, fmt.Sprintf("Invalid %s Id", name)}
	notFound := Outcome{NotFound, http.StatusNotFound, fmt.Sprintf("%s Not Found", name)}
	lookupErr := Outcome{LookupError, http.StatusInternalServerError, ""}
	writeErr := Outcome{WriteError, http.StatusInternalServerError, ""}
	ok := Outcome{Success, http.StatusOK, ""}

	return ControllerOperations{
		GetAll: Operation{
			Name:     "getAll" + name,
			Value:    "data",
			Outcomes: []Outcome{lookupErr, ok},
		},
		Get: Operation{
			Name:     "get" + name,
			Value:    "found",
			Outcomes: []Outcome{invalid, lookupErr, notFound, ok},
		},
		Add: Operation{
			Name:     "add" + name,
			Value:    "created",
			Outcomes: []Outcome{writeErr, ok},
		},
		Modify: Operation{
			Name:     "modify" + name,
			Value:    "found",
			Outcomes: []Outcome{invalid, lookupErr, notFound, writeErr, ok},
		},
		Delete: Operation{
			Name:     "delete" + name,
			Value:    "found",
			Outcomes: []Outcome{invalid, lookupErr, notFound, writeErr, ok},
		},
	}
}

// renderResult renders the JavaScript expression an operation passes to
// its callback on the given branch.
func renderResult(op Operation, cond string) (string, error) {
	o, ok := op.Outcome(Condition(cond))
	if !ok {
		return "", fmt.Errorf("operation %s has no %q outcome", op.Name, cond)
	}
	switch {
	case !o.Failed():
		return fmt.Sprintf("ok(%d, %s)", o.Status, op.Value), nil
	case o.Message != "":
		return fmt.Sprintf("fail(%d, %s)", o.Status, jsString(o.Message)), nil
	default:
		return fmt.Sprintf("fail(%d, err)", o.Status), nil
	}
}
