package model

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownSign       = errors.New("unknown interaction sign")
	ErrUnknownTransition = errors.New("unknown transition type")
	ErrUnknownUniqueness = errors.New("unknown uniqueness mode")
)

type Sign uint8

const (
	Activation Sign = iota
	Repression
)

func ParseSign(sign string) (Sign, error) {
	switch strings.ToLower(strings.TrimSpace(sign)) {
	case "+", "positive", "activation", "activating":
		return Activation, nil
	case "-", "negative", "repression", "repressing":
		return Repression, nil
	}
	return 0, errors.Wrapf(ErrUnknownSign, "%q", sign)
}

func (sign Sign) String() string {
	if sign == Repression {
		return "-"
	}
	return "+"
}

type TransitionType uint8

const (
	Synchronous TransitionType = iota
	Asynchronous
	// Fixpoint forces every step to repeat its state under synchronous update.
	Fixpoint
)

var transitionTypes = map[string]TransitionType{
	"synchronous":  Synchronous,
	"asynchronous": Asynchronous,
	"fixpoint":     Fixpoint,
}

// ParseTransitionType defaults to synchronous for an empty string.
func ParseTransitionType(transition string) (TransitionType, error) {
	if transition == "" {
		return Synchronous, nil
	}
	transitionType, ok := transitionTypes[strings.ToLower(transition)]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownTransition, "%q", transition)
	}
	return transitionType, nil
}

func (transition TransitionType) String() string {
	switch transition {
	case Synchronous:
		return "synchronous"
	case Asynchronous:
		return "asynchronous"
	case Fixpoint:
		return "fixpoint"
	}
	return "unknown"
}

// Uniqueness selects what a new model must differ in from every model
// already found.
type Uniqueness uint8

const (
	Interactions Uniqueness = iota
	Full
	Paths
)

var uniquenessModes = map[string]Uniqueness{
	"interactions": Interactions,
	"full":         Full,
	"paths":        Paths,
}

// ParseUniqueness defaults to interactions for an empty string.
func ParseUniqueness(uniqueness string) (Uniqueness, error) {
	if uniqueness == "" {
		return Interactions, nil
	}
	mode, ok := uniquenessModes[strings.ToLower(uniqueness)]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownUniqueness, "%q", uniqueness)
	}
	return mode, nil
}

func (uniqueness Uniqueness) String() string {
	switch uniqueness {
	case Interactions:
		return "interactions"
	case Full:
		return "full"
	case Paths:
		return "paths"
	}
	return "unknown"
}
