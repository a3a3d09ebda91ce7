package tools

import (
	"errors"
	"fmt"
	"strings"

	"energy-tools/internal/addresses"
	"energy-tools/internal/collaborator"
	"energy-tools/internal/kpi"
	"energy-tools/internal/scenarios"
)

// Kind classifies a failed tool call.
type Kind string

const (
	DataUnavailable         Kind = "DataUnavailable"
	CollaboratorUnavailable Kind = "CollaboratorUnavailable"
	RenderFailure           Kind = "RenderFailure"
	InvalidInput            Kind = "InvalidInput"
)

// Status is the outcome of a tool call.
type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
	StatusError Status = "error"
)

// Result is what every tool returns. Exactly one of the three shapes is
// populated, selected by Status.
type Result struct {
	Status    Status   `json:"status"`
	Kind      Kind     `json:"kind,omitempty"`
	Street    string   `json:"street,omitempty"`
	Report    string   `json:"report,omitempty"`
	Items     []string `json:"items,omitempty"`
	Artifacts []string `json:"artifacts,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

// Ok wraps a rendered report and the files written for it.
func Ok(report string, artifacts ...string) Result {
	return Result{Status: StatusOK, Report: report, Artifacts: artifacts}
}

// List wraps a list answer such as street names or building ids.
func List(items []string) Result {
	if items == nil {
		items = []string{}
	}
	return Result{Status: StatusOK, Items: items}
}

// Empty reports a street that matched no building.
func Empty(street string) Result {
	return Result{Status: StatusEmpty, Street: street}
}

func Err(kind Kind, detail string) Result {
	return Result{Status: StatusError, Kind: kind, Detail: detail}
}

// Errf classifies err and wraps it as a failed Result.
func Errf(err error, format string, args ...any) Result {
	return Err(kindOf(err), fmt.Sprintf(format, args...)+": "+err.Error())
}

func (r Result) OK() bool { return r.Status == StatusOK }

// Text is the agent-facing rendering. It is the only place the "Error:"
// prefix is produced.
func (r Result) Text() string {
	switch r.Status {
	case StatusOK:
		if r.Report != "" {
			return r.Report
		}
		return strings.Join(r.Items, "\n")
	case StatusEmpty:
		return "No buildings found for street: " + r.Street
	default:
		if r.Detail == "" {
			return "Error: " + r.Kind.message()
		}
		return "Error: " + r.Kind.message() + ": " + r.Detail
	}
}

func (k Kind) message() string {
	switch k {
	case DataUnavailable:
		return "input data not available"
	case CollaboratorUnavailable:
		return "required simulation modules are not available"
	case RenderFailure:
		return "failed to write analysis outputs"
	case InvalidInput:
		return "invalid input"
	default:
		return "unexpected failure"
	}
}

// kindOf maps internal sentinel errors to a Kind. Anything unclassified is
// an output failure.
func kindOf(err error) Kind {
	switch {
	case errors.Is(err, addresses.ErrDataUnavailable), errors.Is(err, kpi.ErrNotFound):
		return DataUnavailable
	case errors.Is(err, collaborator.ErrUnavailable), errors.Is(err, errSimulation):
		return CollaboratorUnavailable
	case errors.Is(err, kpi.ErrUnsupported), errors.Is(err, scenarios.ErrUnknown),
		errors.Is(err, errInvalidStreet), errors.Is(err, errOutsideResults):
		return InvalidInput
	default:
		return RenderFailure
	}
}

var (
	errInvalidStreet  = errors.New("street name is required")
	errOutsideResults = errors.New("path is outside the result directories")
)
